package handlers

import (
	"net/url"

	"pokesearch/internal/search"
)

// returnQuery encodes the current query without the search parameter so a
// form post can restore the other parameters.
func returnQuery(params url.Values) string {
	rest := make(url.Values, len(params))
	for k, v := range params {
		if k != search.ParamKey {
			rest[k] = v
		}
	}
	return rest.Encode()
}
