package scoring

import (
	"fmt"
	"sort"
	"strings"
)

// maxExplainedMethods bounds how many methods the explanation names.
const maxExplainedMethods = 3

// buildExplanation renders a short rationale naming the top contributing
// methods. Contribution is a method's share of the base score (ensemble
// weight times calibrated score), so the explanation matches what actually
// drove the tier.
func buildExplanation(b Breakdown, methods map[Method]MethodConfig) string {
	type contribution struct {
		method Method
		value  float64
	}
	var contribs []contribution
	for _, m := range Methods() {
		v := methods[m].Weight * b.CalibratedPerMethod[m]
		if v > 0 {
			contribs = append(contribs, contribution{method: m, value: v})
		}
	}
	if len(contribs) == 0 {
		return "no significant signals detected"
	}

	sort.SliceStable(contribs, func(i, j int) bool {
		return contribs[i].value > contribs[j].value
	})
	if len(contribs) > maxExplainedMethods {
		contribs = contribs[:maxExplainedMethods]
	}

	parts := make([]string, 0, len(contribs))
	for _, c := range contribs {
		r := b.PerMethod[c.method]
		part := fmt.Sprintf("%s: %s", c.method, rationale[c.method])
		if len(r.MatchedCategories) > 0 {
			part += fmt.Sprintf(" (%s)", strings.Join(r.MatchedCategories, ", "))
		}
		parts = append(parts, part)
	}
	return "driven by " + strings.Join(parts, "; ")
}
