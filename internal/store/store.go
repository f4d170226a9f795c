package store

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Product 购物车内的商品快照
type Product struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	Stock       *int            `json:"stock,omitempty"`
}

// MaxQuantity 单行商品数量上限
const MaxQuantity = 9999

// CartLine 购物车行（商品 + 数量）
type CartLine struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal 行小计
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// User 会话用户，nil 表示游客
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

// Listener 状态变更订阅者
type Listener func(Snapshot)

// Option 创建 Store 的可选参数
type Option func(*Store)

// WithSnapshot 使用已持久化的快照初始化
func WithSnapshot(snap Snapshot) Option {
	return func(s *Store) {
		s.restore(snap)
	}
}

// Store 购物车与会话状态容器
// 每个会话一个实例，由调用方显式创建并注入，不存在全局单例。
type Store struct {
	mu        sync.RWMutex
	cart      []CartLine
	cartOpen  bool
	user      *User
	listeners []subscription
	nextSubID int
}

type subscription struct {
	id int
	fn Listener
}

// New 创建空的 Store
func New(opts ...Option) *Store {
	s := &Store{cart: make([]CartLine, 0)}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Subscribe 订阅状态变更，返回取消订阅函数
func (s *Store) Subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.listeners {
				if sub.id == id {
					s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// AddToCart 加入购物车：已存在则数量 +1，否则追加数量为 1 的新行
func (s *Store) AddToCart(product Product) {
	s.mutate(func() {
		for i := range s.cart {
			if s.cart[i].ID == product.ID {
				s.cart[i].Quantity = addQuantity(s.cart[i].Quantity, 1)
				return
			}
		}
		s.cart = append(s.cart, CartLine{Product: product, Quantity: 1})
	})
}

// RemoveFromCart 删除购物车行，不存在时为空操作
func (s *Store) RemoveFromCart(productID string) {
	s.mutate(func() {
		s.cart = removeLine(s.cart, productID)
	})
}

// UpdateQuantity 设置数量；数量小于等于 0 时删除该行，超过 MaxQuantity 时取上限
func (s *Store) UpdateQuantity(productID string, quantity int) {
	s.mutate(func() {
		if quantity <= 0 {
			s.cart = removeLine(s.cart, productID)
			return
		}
		for i := range s.cart {
			if s.cart[i].ID == productID {
				s.cart[i].Quantity = min(quantity, MaxQuantity)
				return
			}
		}
	})
}

// ClearCart 清空购物车
func (s *Store) ClearCart() {
	s.mutate(func() {
		s.cart = make([]CartLine, 0)
	})
}

// ToggleCart 切换购物车面板显示状态
func (s *Store) ToggleCart() {
	s.mutate(func() {
		s.cartOpen = !s.cartOpen
	})
}

// SetUser 整体替换会话用户（登出时传 nil）
func (s *Store) SetUser(user *User) {
	s.mutate(func() {
		if user == nil {
			s.user = nil
			return
		}
		copied := *user
		s.user = &copied
	})
}

// MergeLines 合并外部购物车行，相同商品数量累加
func (s *Store) MergeLines(lines []CartLine) {
	if len(lines) == 0 {
		return
	}
	s.mutate(func() {
		for _, line := range lines {
			if line.Quantity <= 0 {
				continue
			}
			merged := false
			for i := range s.cart {
				if s.cart[i].ID == line.ID {
					s.cart[i].Quantity = addQuantity(s.cart[i].Quantity, line.Quantity)
					merged = true
					break
				}
			}
			if !merged {
				line.Quantity = min(line.Quantity, MaxQuantity)
				s.cart = append(s.cart, line)
			}
		}
	})
}

// Lines 返回购物车行副本
func (s *Store) Lines() []CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyLines(s.cart)
}

// Total 实时计算购物车总额
func (s *Store) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sumLines(s.cart)
}

// ItemCount 购物车商品总件数
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, line := range s.cart {
		count += line.Quantity
	}
	return count
}

// CartOpen 购物车面板是否展开
func (s *Store) CartOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cartOpen
}

// User 当前会话用户
func (s *Store) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	copied := *s.user
	return &copied
}

// Snapshot 导出当前状态
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		State: State{
			Cart:       copyLines(s.cart),
			IsCartOpen: s.cartOpen,
		},
		Version: SnapshotVersion,
	}
	if s.user != nil {
		copied := *s.user
		snap.State.User = &copied
	}
	return snap
}

func (s *Store) restore(snap Snapshot) {
	s.cart = make([]CartLine, 0, len(snap.State.Cart))
	for _, line := range snap.State.Cart {
		if line.Quantity <= 0 || line.ID == "" {
			continue
		}
		s.cart = removeLine(s.cart, line.ID)
		line.Quantity = min(line.Quantity, MaxQuantity)
		s.cart = append(s.cart, line)
	}
	s.cartOpen = snap.State.IsCartOpen
	s.user = nil
	if snap.State.User != nil {
		copied := *snap.State.User
		s.user = &copied
	}
}

// addQuantity 累加数量并在 MaxQuantity 处饱和，不会溢出
func addQuantity(current, delta int) int {
	if delta >= MaxQuantity-current {
		return MaxQuantity
	}
	return current + delta
}

// mutate 在锁内修改状态，解锁后按订阅顺序同步广播
func (s *Store) mutate(fn func()) {
	s.mu.Lock()
	fn()
	snap := s.snapshotLocked()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, sub := range s.listeners {
		listeners = append(listeners, sub.fn)
	}
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(snap)
	}
}

func removeLine(lines []CartLine, productID string) []CartLine {
	out := lines[:0]
	for _, line := range lines {
		if line.ID != productID {
			out = append(out, line)
		}
	}
	return out
}

func copyLines(lines []CartLine) []CartLine {
	out := make([]CartLine, len(lines))
	copy(out, lines)
	for i := range out {
		if out[i].Stock != nil {
			stock := *out[i].Stock
			out[i].Stock = &stock
		}
	}
	return out
}

func sumLines(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
	}
	return total
}
