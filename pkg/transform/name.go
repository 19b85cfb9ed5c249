package transform

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/Inveniem/kustomize-storage-config-transformer/pkg/config"
)

// replacementToken matches the parts of a replacement string that are not
// copied literally: \\, \1, \g<name>, $$, $1, ${name} and a lone $.
var replacementToken = regexp.MustCompile(`\\\\|\\\d+|\\g<\w+>|\$\$|\$\d+|\$\{\w+\}|\$`)

// GenerateName returns prefix + value + suffix with the template's
// replacements applied in order.
func GenerateName(tmpl config.NameTemplate, value string) (string, error) {
	return render(tmpl.Prefix, value, tmpl.Suffix, tmpl.Replacements)
}

func render(prefix, value, suffix string, replacements []config.Replacement) (string, error) {
	out := prefix + value + suffix
	for i, r := range replacements {
		regex, err := regexp.Compile(r.Pattern)
		if err != nil {
			return "", errors.Wrapf(config.Errorf("invalid pattern %q: %v", r.Pattern, err), "replacements[%d]", i)
		}
		out = regex.ReplaceAllString(out, expandTemplate(r.Replacement))
	}
	return out, nil
}

// expandTemplate converts a replacement string to regexp.Expand syntax. Both
// \1 / \g<name> and $1 / ${name} reference groups, \\ is one backslash and
// any other $ is literal.
func expandTemplate(replacement string) string {
	return replacementToken.ReplaceAllStringFunc(replacement, func(token string) string {
		switch {
		case token == `\\`:
			return `\`
		case token == "$" || token == "$$":
			return "$$"
		case strings.HasPrefix(token, "${"):
			return token
		case strings.HasPrefix(token, `\g<`):
			return "${" + token[3:len(token)-1] + "}"
		default:
			return "${" + token[1:] + "}"
		}
	})
}
