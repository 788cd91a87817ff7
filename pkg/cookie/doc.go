// Package cookie provides HTTP cookie management with optional signing and encryption.
//
// The Manager handles plain, signed, and encrypted cookies, plus flash messages.
// Every write goes through a single policy step that applies consent, the
// minimum SameSite mode and the Secure policy before the cookie is emitted.
//
// # Basic Usage
//
//	m := cookie.New()
//	if err := m.Set(w, r, "theme", "dark", 86400); err != nil {
//		// consent missing
//	}
//	value, err := m.Get(r, "theme")
//
// # With Secret
//
// Signing and encryption need a 32+ byte secret:
//
//	m := cookie.New(
//		cookie.WithSecret("your-32+-byte-secret-key-here!!"),
//		cookie.WithSecurePolicy(cookie.SecureAlways),
//	)
//
//	err := m.SetSigned(w, r, "session", sessionID, 86400)
//	value, err := m.GetSigned(r, "session")
//
//	err = m.SetEncrypted(w, r, "prefs", prefs, 86400)
//	value, err = m.GetEncrypted(r, "prefs")
//
// # Policy
//
// Consent is checked by a [ConsentCheck]. With [ConsentNeverRequired] (the
// default) all cookies are written. With a check that returns true,
// non-essential cookies need a prior [Manager.GrantConsent]; pass [Essential]
// to bypass it.
//
// [WithMinimumSameSite] raises weaker SameSite modes. A minimum of
// SameSiteNoneMode leaves cookies untouched.
//
// The Secure flag comes from a [SecurePolicy]. [SecureSameAsRequest] follows
// the scheme of the request, including a scheme rewritten from
// X-Forwarded-Proto.
//
// Browsers reject SameSite=None without Secure, so [Normalize] downgrades such
// cookies to Lax.
//
// # Flash Messages
//
// Flash messages are encrypted, single-read values that auto-delete after reading:
//
//	m.SetFlash(w, r, "notice", map[string]string{"text": "Saved"})
//
//	var notice map[string]string
//	if err := m.Flash(w, r, "notice", &notice); err == nil {
//		// render notice
//	}
package cookie
