package api

import "github.com/lalith-99/flockr/internal/apperr"

func invalidRequest(err error) error {
	return apperr.InvalidRequest(err.Error())
}
