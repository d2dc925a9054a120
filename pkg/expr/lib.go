package expr

import (
	"net/url"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"
)

type lib struct{}

func (lib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		ext.Strings(),

		// Example: isURL(text) && urlHost(text) == "reddit.com".
		cel.Function("isURL",
			cel.Overload("is_url_string", []*cel.Type{cel.StringType}, cel.BoolType,
				cel.UnaryBinding(func(s ref.Val) ref.Val {
					u, ok := parseURL(s)
					return types.Bool(ok && u.Scheme != "" && u.Host != "")
				}),
			),
		),
		cel.Function("urlHost",
			cel.Overload("url_host_string", []*cel.Type{cel.StringType}, cel.StringType,
				urlPart(func(u *url.URL) string { return u.Hostname() }),
			),
		),
		cel.Function("urlScheme",
			cel.Overload("url_scheme_string", []*cel.Type{cel.StringType}, cel.StringType,
				urlPart(func(u *url.URL) string { return u.Scheme }),
			),
		),
		cel.Function("urlPath",
			cel.Overload("url_path_string", []*cel.Type{cel.StringType}, cel.StringType,
				urlPart(func(u *url.URL) string { return u.Path }),
			),
		),

		// Example: lineCount(text) == 1.
		cel.Function("lineCount",
			cel.Overload("line_count_string", []*cel.Type{cel.StringType}, cel.IntType,
				cel.UnaryBinding(func(s ref.Val) ref.Val {
					str, ok := s.Value().(string)
					if !ok {
						return types.NewErr("lineCount: invalid string value")
					}
					if str == "" {
						return types.Int(0)
					}

					return types.Int(strings.Count(strings.TrimSuffix(str, "\n"), "\n") + 1)
				}),
			),
		),
	}
}

func (lib) ProgramOptions() []cel.ProgramOption {
	return []cel.ProgramOption{}
}

func urlPart(part func(*url.URL) string) cel.OverloadOpt {
	return cel.UnaryBinding(func(s ref.Val) ref.Val {
		u, ok := parseURL(s)
		if !ok {
			return types.String("")
		}

		return types.String(part(u))
	})
}

func parseURL(s ref.Val) (*url.URL, bool) {
	str, ok := s.Value().(string)
	if !ok {
		return nil, false
	}

	u, err := url.Parse(strings.TrimSpace(str))
	if err != nil {
		return nil, false
	}

	return u, true
}
