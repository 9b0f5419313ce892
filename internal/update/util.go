package update

import "github.com/sandeepkv93/todolist/internal/model"

func filterLabel(status *model.Status) string {
	if status == nil {
		return "all"
	}
	return string(*status)
}
