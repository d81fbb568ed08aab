package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/securecookie"
)

const flashCookieName = "congrega_flash"

// Flash is a one-shot notification carried across a redirect.
type Flash struct {
	Title       string
	Description string
	Error       bool
}

// Flasher signs flash cookies so clients cannot forge notifications.
type Flasher struct {
	codec *securecookie.SecureCookie
}

// NewFlasher returns a Flasher signing with hashKey (32 or 64 bytes recommended).
func NewFlasher(hashKey []byte) *Flasher {
	codec := securecookie.New(hashKey, nil)
	codec.MaxAge(60)
	codec.SetSerializer(securecookie.JSONEncoder{})
	return &Flasher{codec: codec}
}

// Set stores f for the next request.
func (fl *Flasher) Set(w http.ResponseWriter, f Flash) {
	value, err := fl.codec.Encode(flashCookieName, f)
	if err != nil {
		slog.Error("flash_event", "event", "encode_failed", "error", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    value,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   60,
	})
}

// Pop returns the pending flash, if any, and clears it.
func (fl *Flasher) Pop(w http.ResponseWriter, r *http.Request) (Flash, bool) {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return Flash{}, false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
	var f Flash
	if err := fl.codec.Decode(flashCookieName, cookie.Value, &f); err != nil {
		return Flash{}, false
	}
	return f, true
}
