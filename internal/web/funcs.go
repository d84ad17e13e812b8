package web

import (
	"encoding/json"
	"html/template"
	"time"
)

var funcs = template.FuncMap{
	"ms": func(d time.Duration) string {
		return d.Round(time.Millisecond).String()
	},
	"json": func(value any) string {
		data, err := json.Marshal(value)
		if err != nil {
			return ""
		}
		return string(data)
	},
}
