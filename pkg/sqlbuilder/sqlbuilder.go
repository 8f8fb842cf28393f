package sqlbuilder

import (
	"github.com/Masterminds/squirrel"
)

// Builder построитель запросов с плейсхолдерами "?" (mysql и sqlite)
var Builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// Select создает SELECT запрос
func Select(columns ...string) squirrel.SelectBuilder {
	return Builder.Select(columns...)
}

// Insert создает INSERT запрос
func Insert(into string) squirrel.InsertBuilder {
	return Builder.Insert(into)
}
