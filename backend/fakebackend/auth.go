package fakebackend

import (
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/notoli/internal/errors"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	noActiveAccount = "No active account found with the given credentials"
)

type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type registerResponse struct {
	Message     string `json:"message"`
	Username    string `json:"username"`
	WorkspaceID int64  `json:"workspace_id,omitempty"`
	tokenPair
}

// LoginHandler exchanges an email or username plus password for a token pair.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeBody(r, &req); err != nil {
			writeDetail(w, http.StatusBadRequest, "JSON parse error.")
			return
		}
		email := strings.TrimSpace(req.Email)
		username := strings.TrimSpace(req.Username)
		if email == "" && username == "" {
			writeJSON(w, http.StatusBadRequest, map[string][]string{"email": {"This field is required."}})
			return
		}
		if req.Password == "" {
			writeJSON(w, http.StatusBadRequest, map[string][]string{"password": {"This field is required."}})
			return
		}

		s.mu.RLock()
		var u *user
		if username != "" {
			u = s.userByUsername(username)
		} else {
			u = s.userByEmail(email)
		}
		s.mu.RUnlock()

		if u == nil || bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(req.Password)) != nil {
			writeDetail(w, http.StatusUnauthorized, noActiveAccount)
			return
		}

		pair, err := s.issueTokens(u)
		if err != nil {
			log.Err(err).Msg("fakebackend: issuing tokens")
			writeDetail(w, http.StatusInternalServerError, "A server error occurred.")
			return
		}
		writeJSON(w, http.StatusOK, pair)
	}
}

// RegisterHandler creates a user, a default workspace for them and a token pair.
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := decodeBody(r, &req); err != nil {
			writeDetail(w, http.StatusBadRequest, "JSON parse error.")
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email))
		username := strings.TrimSpace(req.Username)

		if email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "Email and password required.")
			return
		}
		if !validEmail(email) {
			writeError(w, http.StatusBadRequest, "Invalid email address.")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid password.")
			return
		}

		s.mu.Lock()
		if s.userByEmail(email) != nil {
			s.mu.Unlock()
			writeError(w, http.StatusBadRequest, "Email already exists.")
			return
		}
		if username != "" {
			if s.userByUsername(username) != nil {
				s.mu.Unlock()
				writeError(w, http.StatusBadRequest, "Username already exists.")
				return
			}
		} else {
			username = s.uniqueUsername(strings.SplitN(email, "@", 2)[0])
		}

		u := &user{ID: s.newID(usersTable), Username: username, Email: email, PasswordHash: hash}
		s.users[u.ID] = u
		var workspaceID int64
		if s.opts.DefaultWorkspace != "" {
			workspaceID = s.createWorkspace(u.ID, s.opts.DefaultWorkspace, "").ID
		}
		s.mu.Unlock()

		pair, err := s.issueTokens(u)
		if err != nil {
			log.Err(err).Msg("fakebackend: issuing tokens")
			writeDetail(w, http.StatusInternalServerError, "A server error occurred.")
			return
		}
		writeJSON(w, http.StatusCreated, registerResponse{
			Message:     "User created successfully.",
			Username:    u.Username,
			WorkspaceID: workspaceID,
			tokenPair:   pair,
		})
	}
}

// CreateUser adds an account directly, bypassing registration checks other
// than uniqueness. A blank username is derived from the email. It returns
// the new user id.
func (s *Server) CreateUser(email, username, password string) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "hash password")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userByEmail(email) != nil {
		return 0, pkgerrors.Wrapf(errors.ErrInvalidRequest, "email %q already exists", email)
	}
	if username == "" {
		username = s.uniqueUsername(strings.SplitN(email, "@", 2)[0])
	} else if s.userByUsername(username) != nil {
		return 0, pkgerrors.Wrapf(errors.ErrInvalidRequest, "username %q already exists", username)
	}

	u := &user{ID: s.newID(usersTable), Username: username, Email: email, PasswordHash: hash}
	s.users[u.ID] = u
	if s.opts.DefaultWorkspace != "" {
		s.createWorkspace(u.ID, s.opts.DefaultWorkspace, "")
	}
	return u.ID, nil
}

func (s *Server) issueTokens(u *user) (tokenPair, error) {
	s.mu.RLock()
	generation := s.tokenGeneration
	s.mu.RUnlock()

	access, err := s.signToken(u, tokenTypeAccess, generation)
	if err != nil {
		return tokenPair{}, err
	}
	refresh, err := s.signToken(u, tokenTypeRefresh, generation)
	if err != nil {
		return tokenPair{}, err
	}
	return tokenPair{Access: access, Refresh: refresh}, nil
}

func (s *Server) signToken(u *user, tokenType string, generation int64) (string, error) {
	now := s.nowFunc()
	ttl := s.opts.AccessTokenTTL
	if tokenType == tokenTypeRefresh {
		ttl = s.opts.RefreshTokenTTL
	}
	claims := jwtlib.MapClaims{
		"token_type": tokenType,
		"exp":        now.Add(ttl).Unix(),
		"iat":        now.Unix(),
		"jti":        uuid.NewString(),
		"user_id":    strconv.FormatInt(u.ID, 10),
		"username":   u.Username,
		"email":      u.Email,
		"gen":        generation,
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(s.opts.Secret)
	if err != nil {
		return "", pkgerrors.Wrap(err, "sign token")
	}
	return signed, nil
}

// verifyAccessToken checks signature, expiry, token type and generation and
// returns the user id the token was issued to.
func (s *Server) verifyAccessToken(raw string) (int64, error) {
	parsed, err := jwtlib.Parse(raw, func(t *jwtlib.Token) (any, error) {
		return s.opts.Secret, nil
	},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(s.nowFunc),
	)
	if err != nil {
		return 0, pkgerrors.Wrap(errors.ErrInvalidToken, err.Error())
	}
	claims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return 0, errors.ErrInvalidToken
	}
	if tokenType, _ := claims["token_type"].(string); tokenType != tokenTypeAccess {
		return 0, pkgerrors.Wrap(errors.ErrInvalidToken, "not an access token")
	}

	generation, _ := claims["gen"].(float64)
	idText, _ := claims["user_id"].(string)
	userID, err := strconv.ParseInt(idText, 10, 64)
	if err != nil {
		return 0, pkgerrors.Wrap(errors.ErrInvalidToken, "bad user_id")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if int64(generation) != s.tokenGeneration {
		return 0, pkgerrors.Wrap(errors.ErrInvalidToken, "token revoked")
	}
	if _, ok := s.users[userID]; !ok {
		return 0, pkgerrors.Wrap(errors.ErrInvalidToken, "unknown user")
	}
	return userID, nil
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return at > 0 && strings.Contains(email[at+1:], ".")
}
