package rest

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
)

const flashCookieName = "flash"

// Категории сообщений
const (
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashError   = "danger"
)

// Flash - одноразовое сообщение пользователю, переживающее редирект.
type Flash struct {
	Category string `json:"categoria"`
	Message  string `json:"mensaje"`
}

// FlashStore хранит сообщения в cookie, подписанной HMAC-SHA256 от SECRET_KEY.
type FlashStore struct {
	secret []byte
}

// NewFlashStore с пустым секретом генерирует случайный: сообщения тогда не переживут перезапуск.
func NewFlashStore(secret string) *FlashStore {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic(err)
		}
	}
	return &FlashStore{secret: key}
}

// Add дописывает сообщения к уже установленным в этом ответе или пришедшим с запросом.
func (s *FlashStore) Add(w http.ResponseWriter, r *http.Request, flashes ...Flash) {
	all := append(s.read(r), flashes...)
	payload, err := json.Marshal(all)
	if err != nil {
		return
	}
	value := base64.RawURLEncoding.EncodeToString(payload)
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    value + "." + s.sign(value),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop возвращает сообщения и удаляет cookie. Поддельная cookie молча игнорируется.
func (s *FlashStore) Pop(w http.ResponseWriter, r *http.Request) []Flash {
	flashes := s.read(r)
	if _, err := r.Cookie(flashCookieName); err == nil {
		http.SetCookie(w, &http.Cookie{
			Name:     flashCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return flashes
}

func (s *FlashStore) read(r *http.Request) []Flash {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil {
		return []Flash{}
	}
	value, sig, ok := strings.Cut(cookie.Value, ".")
	if !ok || !hmac.Equal([]byte(sig), []byte(s.sign(value))) {
		return []Flash{}
	}
	payload, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return []Flash{}
	}
	var flashes []Flash
	if err := json.Unmarshal(payload, &flashes); err != nil {
		return []Flash{}
	}
	return flashes
}

func (s *FlashStore) sign(value string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
