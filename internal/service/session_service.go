package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/stationeryhub/internal/logger"
	"github.com/stationeryhub/internal/metrics"
	"github.com/stationeryhub/internal/models"
	"github.com/stationeryhub/internal/repository"
	"github.com/stationeryhub/internal/store"

	"github.com/google/uuid"
)

const maxSessionIDLength = 64

// SessionView 会话视图（购物车 + 用户）
type SessionView struct {
	SessionID  string           `json:"session_id"`
	Lines      []store.CartLine `json:"lines"`
	Total      string           `json:"total"`
	ItemCount  int              `json:"item_count"`
	IsCartOpen bool             `json:"is_cart_open"`
	User       *store.User      `json:"user"`
}

// SessionService 购物车会话服务
type SessionService struct {
	persister   store.Persister
	productRepo repository.ProductRepository
	locks       *keyedMutex
}

// NewSessionService 创建会话服务
func NewSessionService(persister store.Persister, productRepo repository.ProductRepository) *SessionService {
	return &SessionService{
		persister:   persister,
		productRepo: productRepo,
		locks:       newKeyedMutex(),
	}
}

// NewSessionID 生成新会话 ID
func NewSessionID() string {
	return uuid.NewString()
}

// NormalizeSessionID 校验并规范化会话 ID，非法时返回空串
func NormalizeSessionID(raw string) string {
	sid := strings.TrimSpace(raw)
	if sid == "" || len(sid) > maxSessionIDLength {
		return ""
	}
	for _, r := range sid {
		if !(r == '-' || r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return ""
		}
	}
	return sid
}

// Get 读取会话
func (s *SessionService) Get(ctx context.Context, sid string) (*SessionView, error) {
	return s.run(ctx, sid, "get", nil)
}

// Add 加入购物车，商品从目录解析
func (s *SessionService) Add(ctx context.Context, sid, productID string) (*SessionView, error) {
	product, err := s.resolveProduct(productID)
	if err != nil {
		metrics.ObserveCartOperation("add", err)
		return nil, err
	}
	return s.run(ctx, sid, "add", func(st *store.Store) error {
		st.AddToCart(product)
		return nil
	})
}

// Remove 移出购物车，不存在时无操作
func (s *SessionService) Remove(ctx context.Context, sid, productID string) (*SessionView, error) {
	return s.run(ctx, sid, "remove", func(st *store.Store) error {
		st.RemoveFromCart(strings.TrimSpace(productID))
		return nil
	})
}

// UpdateQuantity 修改数量，小于等于 0 时移除
func (s *SessionService) UpdateQuantity(ctx context.Context, sid, productID string, quantity int) (*SessionView, error) {
	return s.run(ctx, sid, "update_quantity", func(st *store.Store) error {
		st.UpdateQuantity(strings.TrimSpace(productID), quantity)
		return nil
	})
}

// Clear 清空购物车
func (s *SessionService) Clear(ctx context.Context, sid string) (*SessionView, error) {
	return s.run(ctx, sid, "clear", func(st *store.Store) error {
		st.ClearCart()
		return nil
	})
}

// Toggle 切换购物车可见状态
func (s *SessionService) Toggle(ctx context.Context, sid string) (*SessionView, error) {
	return s.run(ctx, sid, "toggle", func(st *store.Store) error {
		st.ToggleCart()
		return nil
	})
}

// SetUser 设置会话用户，nil 表示登出
func (s *SessionService) SetUser(ctx context.Context, sid string, user *store.User) (*SessionView, error) {
	op := "login"
	if user == nil {
		op = "logout"
	}
	return s.run(ctx, sid, op, func(st *store.Store) error {
		st.SetUser(user)
		return nil
	})
}

// Merge 合并另一会话的购物车（登录时把游客购物车并入），来源会话被删除
// 来源会话必须是游客会话或属于 owner，否则返回 ErrSessionMergeForbidden。
func (s *SessionService) Merge(ctx context.Context, sid, fromSID string, owner *store.User) (*SessionView, error) {
	from := NormalizeSessionID(fromSID)
	if from == "" || from == NormalizeSessionID(sid) {
		return s.Get(ctx, sid)
	}
	release := s.locks.Lock(from)
	source, err := store.Load(ctx, s.persister, store.Key(from))
	release()
	if err != nil {
		return nil, err
	}
	if su := source.User(); su != nil && (owner == nil || su.ID != owner.ID) {
		logger.Warnw("session_merge_forbidden", "session_id", NormalizeSessionID(sid), "source_session_id", from)
		return nil, ErrSessionMergeForbidden
	}
	view, err := s.run(ctx, sid, "merge", func(st *store.Store) error {
		st.MergeLines(source.Lines())
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.persister.Delete(ctx, store.Key(from)); err != nil {
		logger.Warnw("session_merge_source_delete_failed", "session_id", from, "error", err)
	}
	return view, nil
}

// Snapshot 读取会话原始快照（下单使用）
func (s *SessionService) Snapshot(ctx context.Context, sid string) (store.Snapshot, error) {
	sid = NormalizeSessionID(sid)
	if sid == "" {
		return store.Snapshot{}, ErrInvalidSession
	}
	release := s.locks.Lock(sid)
	defer release()
	st, err := store.Load(ctx, s.persister, store.Key(sid))
	if err != nil {
		return store.Snapshot{}, err
	}
	return st.Snapshot(), nil
}

func (s *SessionService) run(ctx context.Context, sid, op string, mutate func(*store.Store) error) (view *SessionView, err error) {
	defer func() {
		metrics.ObserveCartOperation(op, err)
	}()

	sid = NormalizeSessionID(sid)
	if sid == "" {
		return nil, ErrInvalidSession
	}
	release := s.locks.Lock(sid)
	defer release()

	key := store.Key(sid)
	st, err := store.Load(ctx, s.persister, key)
	if err != nil {
		return nil, err
	}
	if mutate != nil {
		var saveErr error
		unbind := store.Bind(ctx, st, s.persister, key, func(key string, err error) {
			saveErr = err
			logger.Errorw("session_persist_failed", "key", key, "op", op, "error", err)
		})
		err = mutate(st)
		unbind()
		if err != nil {
			return nil, err
		}
		if saveErr != nil {
			return nil, saveErr
		}
	}
	return buildSessionView(sid, st), nil
}

func (s *SessionService) resolveProduct(productID string) (store.Product, error) {
	productID = strings.TrimSpace(productID)
	if _, err := strconv.ParseUint(productID, 10, 64); err != nil {
		return store.Product{}, ErrProductNotAvailable
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return store.Product{}, err
	}
	if product == nil || !product.IsActive {
		return store.Product{}, ErrProductNotAvailable
	}
	if product.Stock != nil && *product.Stock <= 0 {
		return store.Product{}, ErrProductNotAvailable
	}
	return ToStoreProduct(product), nil
}

// ToStoreProduct 转换为购物车商品快照
func ToStoreProduct(product *models.Product) store.Product {
	var stock *int
	if product.Stock != nil {
		v := *product.Stock
		stock = &v
	}
	return store.Product{
		ID:          strconv.FormatUint(uint64(product.ID), 10),
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price.Decimal,
		Image:       product.Image,
		Category:    product.Category,
		Stock:       stock,
	}
}

func buildSessionView(sid string, st *store.Store) *SessionView {
	snap := st.Snapshot()
	lines := snap.State.Cart
	if lines == nil {
		lines = []store.CartLine{}
	}
	count := 0
	for _, line := range lines {
		count += line.Quantity
	}
	return &SessionView{
		SessionID:  sid,
		Lines:      lines,
		Total:      snap.Total(),
		ItemCount:  count,
		IsCartOpen: snap.State.IsCartOpen,
		User:       snap.State.User,
	}
}

// Apply 在会话锁内执行自定义操作，每次 Store 变更都会即时持久化
func (s *SessionService) Apply(ctx context.Context, sid, op string, fn func(*store.Store) error) (*SessionView, error) {
	return s.run(ctx, sid, op, fn)
}
