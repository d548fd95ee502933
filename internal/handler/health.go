package handler

import "net/http"

// HandleHealth answers GET / so load balancers and humans can see the
// process is up. It does not touch the store.
func HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"data": "hello"})
}
