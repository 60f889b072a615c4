// Package httputil provides the JSON response helpers shared by HTTP
// handlers.
//
// Every error response uses one envelope:
//
//	{"code": "NOT_FOUND", "message": "vertex 7 is not in the graph"}
//
// [WriteError] derives both fields from a pkg/errors value and picks the
// status with [StatusFor]: INVALID_* codes map to 400, NOT_FOUND codes to
// 404, UNSUPPORTED to 415 and everything else to 500. Errors without a code
// are reported as INTERNAL_ERROR.
//
//	if err := g.RemoveVertex(h); err != nil {
//	    httputil.WriteError(w, err)
//	    return
//	}
//	w.WriteHeader(http.StatusNoContent)
package httputil
