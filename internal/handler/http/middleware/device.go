package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-engine/internal/handler/http/response"
	"golang.org/x/crypto/bcrypt"
)

const DeviceKeyHeader = "X-Device-Key"

// DeviceKeyRequired admits biometric terminals that present the shared key.
// apiKey may be the key itself or its bcrypt hash.
func DeviceKeyRequired(apiKey string) func(http.Handler) http.Handler {
	hashed := strings.HasPrefix(apiKey, "$2")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(DeviceKeyHeader)
			if apiKey == "" || got == "" || !deviceKeyMatches(apiKey, got, hashed) {
				response.HandleError(w, auth.ErrInvalidDeviceKey)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func deviceKeyMatches(apiKey, got string, hashed bool) bool {
	if hashed {
		return bcrypt.CompareHashAndPassword([]byte(apiKey), []byte(got)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(apiKey)) == 1
}
