package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
)

const catalogVersionKey = "catalog:version"

// CatalogListKey 公开商品列表缓存 key，包含版本号以便整体失效
func CatalogListKey(version int64, category, search, priceRange string, page, pageSize int) string {
	raw := strings.ToLower(fmt.Sprintf("%s|%s|%s|%d|%d", category, search, priceRange, page, pageSize))
	sum := sha1.Sum([]byte(raw))
	return fmt.Sprintf("catalog:v%d:%s", version, hex.EncodeToString(sum[:8]))
}

// CatalogVersion 读取当前商品列表缓存版本
func CatalogVersion(ctx context.Context) (int64, error) {
	if !Enabled() {
		return 0, nil
	}
	v, err := redisClient.Get(ctx, BuildKey(catalogVersionKey)).Int64()
	if err != nil {
		if isNil(err) {
			return 0, nil
		}
		return 0, err
	}
	return v, nil
}

// BumpCatalogVersion 商品变更后递增版本，旧缓存随 TTL 自然淘汰
func BumpCatalogVersion(ctx context.Context) error {
	if !Enabled() {
		return nil
	}
	return redisClient.Incr(ctx, BuildKey(catalogVersionKey)).Err()
}
