package prompt

import (
	"strings"

	"github.com/tombee/heyreach/internal/operation"
)

// Missing returns the required parameters of info that params leaves unset
// or empty. profileUrl is only needed in single lead mode.
func Missing(info operation.OperationInfo, params operation.Params) []operation.ParameterInfo {
	var missing []operation.ParameterInfo
	for _, p := range info.Parameters {
		if !p.Required || params.Has(p.Name) {
			continue
		}
		if p.Name == "profileUrl" && strings.EqualFold(params.String("leadsInputMode", ""), "json") {
			continue
		}
		missing = append(missing, p)
	}
	return missing
}
