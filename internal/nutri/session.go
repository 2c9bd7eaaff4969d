package nutri

// Session holds the identity signed in for one interactive session.
// It is passed explicitly to every user-scoped operation. A Session has a
// single writer and is not safe for concurrent use.
type Session struct {
	user *User
}

// NewSession returns a session with no signed-in user.
func NewSession() *Session {
	return &Session{}
}

// CurrentUser returns the signed-in user, if any.
func (s *Session) CurrentUser() (User, bool) {
	if s == nil || s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// SetUser records u as the signed-in user.
func (s *Session) SetUser(u User) {
	s.user = &User{ID: u.ID, Email: u.Email}
}

// Clear signs the user out.
func (s *Session) Clear() {
	s.user = nil
}

// requireUser returns the signed-in user or ErrNotSignedIn.
func (s *Session) requireUser(op string) (User, error) {
	u, ok := s.CurrentUser()
	if !ok {
		return User{}, &Error{Kind: KindAuth, Op: op, Err: ErrNotSignedIn}
	}
	return u, nil
}
