package cookie

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// Errors.
var (
	ErrNotFound        = errors.New("cookie: not found")
	ErrNoSecret        = errors.New("cookie: secret required")
	ErrBadSecret       = errors.New("cookie: secret must be 32+ bytes")
	ErrBadSig          = errors.New("cookie: invalid signature")
	ErrDecrypt         = errors.New("cookie: decryption failed")
	ErrConsentRequired = errors.New("cookie: consent required for non-essential cookie")
)

// DefaultConsentCookieName is the cookie that records a visitor's tracking consent.
const DefaultConsentCookieName = ".consent"

// ConsentCheck reports whether consent for non-essential cookies is needed for a request.
type ConsentCheck func(r *http.Request) bool

// ConsentNeverRequired treats every cookie as allowed.
func ConsentNeverRequired(*http.Request) bool { return false }

// ConsentAlwaysRequired gates non-essential cookies on a recorded consent.
func ConsentAlwaysRequired(*http.Request) bool { return true }

// Manager handles cookie operations.
type Manager struct {
	consentNeeded   ConsentCheck
	secret          []byte // nil = no encryption/signing
	domain          string
	path            string
	consentName     string
	securePolicy    SecurePolicy
	sameSite        http.SameSite
	minimumSameSite http.SameSite
	httpOnly        bool
}

// Option configures the Manager.
type Option func(*Manager)

// New creates a cookie Manager with the given options.
func New(opts ...Option) *Manager {
	m := &Manager{
		consentNeeded: ConsentNeverRequired,
		consentName:   DefaultConsentCookieName,
		path:          "/",
		httpOnly:      true,
		sameSite:      http.SameSiteLaxMode,
		securePolicy:  SecureSameAsRequest,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithSecret sets the secret for signing and encryption.
// Must be at least 32 bytes.
func WithSecret(secret string) Option {
	return func(m *Manager) {
		if len(secret) >= 32 {
			m.secret = []byte(secret)
		}
	}
}

// WithDomain sets the cookie domain.
func WithDomain(domain string) Option {
	return func(m *Manager) {
		m.domain = domain
	}
}

// WithPath sets the cookie path.
func WithPath(path string) Option {
	return func(m *Manager) {
		if path != "" {
			m.path = path
		}
	}
}

// WithSecure forces the Secure flag on or off regardless of the request.
func WithSecure(secure bool) Option {
	return func(m *Manager) {
		if secure {
			m.securePolicy = SecureAlways
		} else {
			m.securePolicy = SecureNever
		}
	}
}

// WithSecurePolicy sets how the Secure flag is derived.
func WithSecurePolicy(p SecurePolicy) Option {
	return func(m *Manager) {
		m.securePolicy = p
	}
}

// WithHTTPOnly sets the HttpOnly flag.
func WithHTTPOnly(httpOnly bool) Option {
	return func(m *Manager) {
		m.httpOnly = httpOnly
	}
}

// WithSameSite sets the SameSite attribute.
func WithSameSite(ss http.SameSite) Option {
	return func(m *Manager) {
		m.sameSite = ss
	}
}

// WithMinimumSameSite raises the SameSite attribute of every written cookie
// to at least the given mode. SameSiteNoneMode leaves cookies unchanged.
func WithMinimumSameSite(ss http.SameSite) Option {
	return func(m *Manager) {
		m.minimumSameSite = ss
	}
}

// WithConsentCheck sets the function deciding whether consent is needed.
// Defaults to ConsentNeverRequired.
func WithConsentCheck(fn ConsentCheck) Option {
	return func(m *Manager) {
		if fn != nil {
			m.consentNeeded = fn
		}
	}
}

// WithConsentCookieName sets the name of the consent cookie.
func WithConsentCookieName(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.consentName = name
		}
	}
}

// SetOption configures a single cookie write.
type SetOption func(*setOptions)

type setOptions struct {
	domain    string
	path      string
	essential bool
}

// Essential marks the cookie as required for the site to work.
// Essential cookies are written even when consent is missing.
func Essential() SetOption {
	return func(o *setOptions) {
		o.essential = true
	}
}

// InDomain overrides the manager's domain for one cookie.
func InDomain(domain string) SetOption {
	return func(o *setOptions) {
		o.domain = domain
	}
}

// AtPath overrides the manager's path for one cookie.
func AtPath(path string) SetOption {
	return func(o *setOptions) {
		if path != "" {
			o.path = path
		}
	}
}

// Domain returns the configured cookie domain.
func (m *Manager) Domain() string {
	return m.domain
}

// Path returns the configured cookie path.
func (m *Manager) Path() string {
	return m.path
}

// CanTrack reports whether non-essential cookies may be written for the request.
func (m *Manager) CanTrack(r *http.Request) bool {
	if !m.consentNeeded(r) {
		return true
	}
	return m.HasConsent(r)
}

// HasConsent reports whether the visitor granted consent.
func (m *Manager) HasConsent(r *http.Request) bool {
	c, err := r.Cookie(m.consentName)
	return err == nil && c.Value == "yes"
}

// GrantConsent records the visitor's consent for one year.
func (m *Manager) GrantConsent(w http.ResponseWriter, r *http.Request) {
	_ = m.write(w, r, m.cookie(m.consentName, "yes", 365*24*60*60, nil), true)
}

// WithdrawConsent removes the consent cookie.
func (m *Manager) WithdrawConsent(w http.ResponseWriter, r *http.Request) {
	_ = m.write(w, r, m.cookie(m.consentName, "", -1, nil), true)
}

// Get returns a plain cookie value.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Set sets a plain cookie.
// Returns ErrConsentRequired if the cookie is not essential and consent is missing.
func (m *Manager) Set(w http.ResponseWriter, r *http.Request, name, value string, maxAge int, opts ...SetOption) error {
	o := m.resolve(opts)
	return m.write(w, r, m.cookie(name, value, maxAge, o), o.essential)
}

// Delete removes a cookie. Deletion never requires consent.
// Pass the same domain and path options the cookie was written with.
func (m *Manager) Delete(w http.ResponseWriter, r *http.Request, name string, opts ...SetOption) {
	_ = m.write(w, r, m.cookie(name, "", -1, m.resolve(opts)), true)
}

// GetSigned returns a signed cookie value.
// Returns ErrNoSecret if no secret is configured.
// Returns ErrBadSig if signature verification fails.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	if m.secret == nil {
		return "", ErrNoSecret
	}

	raw, err := m.Get(r, name)
	if err != nil {
		return "", err
	}

	// Format: base64(value).base64(signature)
	encValue, encSig, ok := strings.Cut(raw, ".")
	if !ok {
		return "", ErrBadSig
	}

	value, err := base64.RawURLEncoding.DecodeString(encValue)
	if err != nil {
		return "", ErrBadSig
	}

	sig, err := base64.RawURLEncoding.DecodeString(encSig)
	if err != nil {
		return "", ErrBadSig
	}

	if !hmac.Equal(sig, m.sign(value)) {
		return "", ErrBadSig
	}

	return string(value), nil
}

// SetSigned sets a signed cookie.
// Returns ErrNoSecret if no secret is configured.
func (m *Manager) SetSigned(w http.ResponseWriter, r *http.Request, name, value string, maxAge int, opts ...SetOption) error {
	if m.secret == nil {
		return ErrNoSecret
	}

	encoded := base64.RawURLEncoding.EncodeToString([]byte(value)) +
		"." + base64.RawURLEncoding.EncodeToString(m.sign([]byte(value)))

	o := m.resolve(opts)
	return m.write(w, r, m.cookie(name, encoded, maxAge, o), o.essential)
}

// GetEncrypted returns an encrypted cookie value.
// Returns ErrNoSecret if no secret is configured.
// Returns ErrDecrypt if decryption fails.
func (m *Manager) GetEncrypted(r *http.Request, name string) (string, error) {
	if m.secret == nil {
		return "", ErrNoSecret
	}

	raw, err := m.Get(r, name)
	if err != nil {
		return "", err
	}

	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return "", ErrDecrypt
	}

	plaintext, err := m.decrypt(data)
	if err != nil {
		return "", ErrDecrypt
	}

	return string(plaintext), nil
}

// SetEncrypted sets an encrypted cookie.
// Returns ErrNoSecret if no secret is configured.
func (m *Manager) SetEncrypted(w http.ResponseWriter, r *http.Request, name, value string, maxAge int, opts ...SetOption) error {
	if m.secret == nil {
		return ErrNoSecret
	}

	ciphertext, err := m.encrypt([]byte(value))
	if err != nil {
		return err
	}

	encoded := base64.RawURLEncoding.EncodeToString(ciphertext)
	o := m.resolve(opts)
	return m.write(w, r, m.cookie(name, encoded, maxAge, o), o.essential)
}

// Flash reads and deletes a flash message.
// Returns ErrNoSecret if no secret is configured.
// Returns ErrNotFound if the flash cookie doesn't exist.
func (m *Manager) Flash(w http.ResponseWriter, r *http.Request, key string, dest any) error {
	if m.secret == nil {
		return ErrNoSecret
	}

	name := "flash_" + key
	raw, err := m.GetEncrypted(r, name)
	if err != nil {
		return err
	}

	m.Delete(w, r, name)

	return json.Unmarshal([]byte(raw), dest)
}

// SetFlash sets a flash message.
// Flash cookies carry data between two requests and are always essential.
// Returns ErrNoSecret if no secret is configured.
func (m *Manager) SetFlash(w http.ResponseWriter, r *http.Request, key string, value any) error {
	if m.secret == nil {
		return ErrNoSecret
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return m.SetEncrypted(w, r, "flash_"+key, string(data), 0, Essential())
}

// write applies the cookie policy and emits the cookie.
func (m *Manager) write(w http.ResponseWriter, r *http.Request, c *http.Cookie, essential bool) error {
	if !essential && !m.CanTrack(r) {
		return ErrConsentRequired
	}

	c.SameSite = atLeast(c.SameSite, m.minimumSameSite)
	c.Secure = m.securePolicy.Secure(r)
	Normalize(c)

	http.SetCookie(w, c)
	return nil
}

// cookie creates a cookie with the manager's defaults.
func (m *Manager) cookie(name, value string, maxAge int, o *setOptions) *http.Cookie {
	if o == nil {
		o = m.resolve(nil)
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     o.path,
		Domain:   o.domain,
		MaxAge:   maxAge,
		HttpOnly: m.httpOnly,
		SameSite: m.sameSite,
	}
}

func (m *Manager) sign(value []byte) []byte {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write(value)
	return mac.Sum(nil)
}

// encrypt uses AES-GCM.
func (m *Manager) encrypt(plaintext []byte) ([]byte, error) {
	aead, err := m.aead()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// decrypt uses AES-GCM.
func (m *Manager) decrypt(ciphertext []byte) ([]byte, error) {
	aead, err := m.aead()
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < aead.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:aead.NonceSize()]
	ciphertext = ciphertext[aead.NonceSize():]

	return aead.Open(nil, nonce, ciphertext, nil)
}

func (m *Manager) aead() (cipher.AEAD, error) {
	// 32-byte key derived from the secret
	key := sha256.Sum256(m.secret)

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func (m *Manager) resolve(opts []SetOption) *setOptions {
	o := &setOptions{domain: m.domain, path: m.path}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
