package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/dennisdiepolder/qoe-admin/backend/internal/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// Roles in priority order
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleAnalyst    = "analyst"
	RoleViewer     = "viewer"
)

var rolePriority = []string{RoleAdmin, RoleSupervisor, RoleAnalyst, RoleViewer}

const regionGroupPrefix = "/regions/"

type Claims struct {
	Email          string         `json:"email"`
	Name           string         `json:"name"`
	Role           string         `json:"role"`
	Groups         []string       `json:"groups"`
	AllowedRegions []types.Region `json:"allowedRegions"` // Computed from region groups or admin override
	jwt.RegisteredClaims
}

type contextKey string

const UserContextKey contextKey = "user"

// JWKSManager handles JWKS fetching and caching
type JWKSManager struct {
	jwks       keyfunc.Keyfunc
	issuerURL  string
	mu         sync.RWMutex
	lastUpdate time.Time
}

var (
	jwksManager *JWKSManager
	jwksOnce    sync.Once
)

// InitJWKS initializes the JWKS manager for token verification.
// Call this on server startup in production mode.
func InitJWKS(issuerURL string) error {
	var initErr error
	jwksOnce.Do(func() {
		jwksManager = &JWKSManager{issuerURL: issuerURL}
		initErr = jwksManager.refresh()
	})
	return initErr
}

// refresh fetches the JWKS from the OIDC provider
func (m *JWKSManager) refresh() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Keycloak layout
	jwksURL := strings.TrimSuffix(m.issuerURL, "/") + "/protocol/openid-connect/certs"
	log.Info().Str("url", jwksURL).Msg("fetching JWKS")

	k, err := keyfunc.NewDefault([]string{jwksURL})
	if err != nil {
		return fmt.Errorf("failed to create keyfunc: %w", err)
	}

	m.jwks = k
	m.lastUpdate = time.Now()
	log.Info().Msg("JWKS loaded")
	return nil
}

// getKeyfunc returns the JWT keyfunc for token verification
func (m *JWKSManager) getKeyfunc() jwt.Keyfunc {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.jwks == nil {
		return nil
	}
	return m.jwks.Keyfunc
}

// DevClaims is the user injected when SKIP_AUTH is enabled
func DevClaims() *Claims {
	return &Claims{
		Email:          "dev@qoe.local",
		Name:           "Dev User",
		Role:           RoleAdmin,
		Groups:         []string{"developers", "qoe-admins"},
		AllowedRegions: types.AllRegions,
	}
}

// Middleware validates JWT tokens from the OIDC provider
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		if os.Getenv("SKIP_AUTH") == "true" {
			log.Debug().Msg("SKIP_AUTH enabled, bypassing authentication")
			ctx := WithUser(r.Context(), DevClaims())
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		tokenString := extractToken(r)
		if tokenString == "" {
			log.Warn().Str("path", r.URL.Path).Msg("missing authorization token")
			writeError(w, http.StatusUnauthorized, "missing token")
			return
		}

		claims, err := validateToken(tokenString)
		if err != nil {
			log.Warn().Err(err).Msg("token validation failed")
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}

		log.Debug().Str("email", claims.Email).Str("role", claims.Role).Msg("user authenticated")

		ctx := WithUser(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole only lets callers holding one of the given roles through
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetUserFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusForbidden, strings.Join(roles, " or ")+" role required")
				return
			}
			for _, role := range roles {
				if HasRole(claims, role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, strings.Join(roles, " or ")+" role required")
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": msg}); err != nil {
		log.Error().Err(err).Msg("failed to write error response")
	}
}

// extractToken gets the token from the Authorization header or query parameter
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString != authHeader {
			return tokenString
		}
	}

	// WebSocket connections cannot set headers from the browser
	return r.URL.Query().Get("token")
}

// validateToken validates the JWT token with optional signature verification
func validateToken(tokenString string) (*Claims, error) {
	env := os.Getenv("ENV")
	verifySignature := os.Getenv("VERIFY_JWT_SIGNATURE") == "true"

	// Outside development, signatures are always verified
	if env != "development" && env != "" {
		verifySignature = true
	}

	var token *jwt.Token
	var err error

	if verifySignature {
		token, err = parseAndVerifyToken(tokenString)
		if err != nil {
			return nil, err
		}
	} else {
		log.Debug().Msg("JWT signature verification disabled (development mode)")
		token, _, err = new(jwt.Parser).ParseUnverified(tokenString, jwt.MapClaims{})
		if err != nil {
			return nil, fmt.Errorf("failed to parse token: %w", err)
		}
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	claims := &Claims{}

	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}

	if name, ok := mapClaims["name"].(string); ok {
		claims.Name = name
	} else if preferredUsername, ok := mapClaims["preferred_username"].(string); ok {
		claims.Name = preferredUsername
	}

	claims.Role = extractRoleFromMapClaims(mapClaims)
	claims.Groups = extractGroupsFromMapClaims(mapClaims)
	claims.AllowedRegions = computeAllowedRegions(claims.Role, extractRegionSlugs(claims.Groups))

	if sub, ok := mapClaims["sub"].(string); ok {
		claims.Subject = sub
	}

	// Verified tokens have exp checked by the parser
	if !verifySignature {
		if exp, ok := mapClaims["exp"].(float64); ok {
			expTime := time.Unix(int64(exp), 0)
			claims.ExpiresAt = jwt.NewNumericDate(expTime)
			if expTime.Before(time.Now()) {
				return nil, fmt.Errorf("token expired")
			}
		}
	}

	log.Debug().
		Str("email", claims.Email).
		Str("role", claims.Role).
		Strs("groups", claims.Groups).
		Interface("allowed_regions", claims.AllowedRegions).
		Msg("token parsed")

	return claims, nil
}

// parseAndVerifyToken verifies the JWT signature using JWKS
func parseAndVerifyToken(tokenString string) (*jwt.Token, error) {
	if jwksManager == nil {
		issuer := os.Getenv("OIDC_ISSUER")
		if issuer == "" {
			return nil, fmt.Errorf("OIDC_ISSUER not configured for production JWT verification")
		}
		if err := InitJWKS(issuer); err != nil {
			return nil, fmt.Errorf("failed to initialize JWKS: %w", err)
		}
	}

	keyfunc := jwksManager.getKeyfunc()
	if keyfunc == nil {
		return nil, fmt.Errorf("JWKS not available")
	}

	token, err := jwt.Parse(tokenString, keyfunc, jwt.WithValidMethods([]string{"RS256", "RS384", "RS512", "ES256", "ES384", "ES512"}))
	if err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return token, nil
}

// extractRoleFromMapClaims picks the highest priority role from realm roles or groups
func extractRoleFromMapClaims(mapClaims jwt.MapClaims) string {
	// Keycloak realm_access.roles
	if realmAccess, ok := mapClaims["realm_access"].(map[string]interface{}); ok {
		if roles, ok := realmAccess["roles"].([]interface{}); ok {
			for _, priority := range rolePriority {
				for _, role := range roles {
					if roleStr, ok := role.(string); ok && roleStr == priority {
						return roleStr
					}
				}
			}
		}
	}

	// Role groups such as "qoe-admins" or "/roles/supervisor"
	held := make(map[string]bool)
	for _, group := range extractGroupsFromMapClaims(mapClaims) {
		if role, ok := roleFromGroup(group); ok {
			held[role] = true
		}
	}
	for _, priority := range rolePriority {
		if held[priority] {
			return priority
		}
	}

	return RoleViewer
}

// roleFromGroup maps an exact role group name to its role.
// Region groups never carry a role.
func roleFromGroup(group string) (string, bool) {
	if strings.HasPrefix(group, regionGroupPrefix) {
		return "", false
	}

	name := strings.ToLower(group)
	name = strings.TrimPrefix(name, "/roles/")
	name = strings.TrimPrefix(name, "qoe-")
	for _, role := range rolePriority {
		if name == role || name == role+"s" {
			return role, true
		}
	}
	return "", false
}

// extractGroupsFromMapClaims extracts groups from token claims
func extractGroupsFromMapClaims(mapClaims jwt.MapClaims) []string {
	var groups []string

	for _, claim := range []string{"groups", "cognito:groups"} {
		if groupsClaim, ok := mapClaims[claim].([]interface{}); ok {
			for _, group := range groupsClaim {
				if groupStr, ok := group.(string); ok {
					groups = append(groups, groupStr)
				}
			}
		}
	}

	return groups
}

// WithUser stores user claims in the context
func WithUser(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, UserContextKey, claims)
}

// GetUserFromContext retrieves user claims from request context
func GetUserFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*Claims)
	return claims, ok
}

// HasRole checks if user has specific role
func HasRole(claims *Claims, role string) bool {
	return claims.Role == role
}

// extractRegionSlugs parses region slugs from group paths.
// Groups are expected in format: /regions/douala, /regions/garoua/field-ops, etc.
func extractRegionSlugs(groups []string) []string {
	var slugs []string

	for _, group := range groups {
		if strings.HasPrefix(group, regionGroupPrefix) {
			slug := strings.TrimPrefix(group, regionGroupPrefix)
			if idx := strings.Index(slug, "/"); idx > 0 {
				slug = slug[:idx]
			}
			if slug != "" {
				slugs = append(slugs, strings.ToLower(slug))
			}
		}
	}

	return slugs
}

// computeAllowedRegions maps region slugs to regions.
// Admin sees everything; no known slug means no regions (fail secure).
func computeAllowedRegions(role string, slugs []string) []types.Region {
	if role == RoleAdmin {
		return types.AllRegions
	}

	seen := make(map[types.Region]bool)
	var allowed []types.Region
	for _, slug := range slugs {
		region, ok := types.RegionGroupMapping[slug]
		if !ok || seen[region] {
			continue
		}
		seen[region] = true
		allowed = append(allowed, region)
	}

	return allowed
}

// IsRegionAllowed checks if a region is in the allowed regions list
func (c *Claims) IsRegionAllowed(region types.Region) bool {
	for _, r := range c.AllowedRegions {
		if r == region {
			return true
		}
	}
	return false
}

// FilterLocations returns only the location rows the caller may see.
// A nil claims value means no auth context and returns the rows unchanged.
func (c *Claims) FilterLocations(locations []types.LocationComplaints) []types.LocationComplaints {
	if c == nil || len(c.AllowedRegions) == len(types.AllRegions) {
		return locations
	}

	filtered := make([]types.LocationComplaints, 0, len(locations))
	for _, l := range locations {
		if c.IsRegionAllowed(l.Name) {
			filtered = append(filtered, l)
		}
	}
	return filtered
}
