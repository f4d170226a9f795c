package repository

import (
	"strings"

	"gorm.io/gorm"
)

const (
	dialectSQLite   = "sqlite"
	dialectPostgres = "postgres"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// dialectOf 数据库方言，未知时按 sqlite 处理
func dialectOf(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return dialectSQLite
	}
	if name := strings.ToLower(db.Dialector.Name()); strings.HasPrefix(name, dialectPostgres) {
		return dialectPostgres
	}
	return dialectSQLite
}

// likeAny 生成多列不区分大小写的模糊匹配条件（任一列命中），关键字中的通配符按字面匹配
func likeAny(db *gorm.DB, keyword string, columns ...string) (string, []interface{}) {
	return likeAnyByDialect(dialectOf(db), keyword, columns)
}

func likeAnyByDialect(dialect, keyword string, columns []string) (string, []interface{}) {
	pattern := "%" + likeEscaper.Replace(strings.TrimSpace(keyword)) + "%"
	op := "ILIKE"
	if dialect != dialectPostgres {
		// sqlite 的 LIKE 仅对 ASCII 忽略大小写，两边都转小写
		op = "LIKE"
		pattern = strings.ToLower(pattern)
	}
	parts := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, column := range columns {
		column = strings.TrimSpace(column)
		if column == "" {
			continue
		}
		if dialect != dialectPostgres {
			column = "LOWER(" + column + ")"
		}
		parts = append(parts, column+" "+op+` ? ESCAPE '\'`)
		args = append(args, pattern)
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}
