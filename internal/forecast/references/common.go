package references

import (
	"encoding/json"
	"net/http"
)

func decodeJSON(resp *http.Response, out interface{}) error {
	return json.NewDecoder(resp.Body).Decode(out)
}
