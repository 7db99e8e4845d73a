package middleware

import (
	"backend/internal/model"
	"backend/pkg/response"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func GetJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // Development fallback only — DO NOT use in production
	}
	return []byte(secret)
}

// SetTokenCookies sets access_token and refresh_token as HttpOnly cookies
func SetTokenCookies(c *gin.Context, accessToken, refreshToken string) {
	// Production (cross-origin): SameSiteNoneMode + Secure=true
	// Development (same-site):   SameSiteLaxMode  + Secure=false
	sameSite := http.SameSiteLaxMode
	secure := false
	if os.Getenv("GIN_MODE") == "release" || os.Getenv("RENDER") != "" {
		sameSite = http.SameSiteNoneMode
		secure = true
	}

	c.SetSameSite(sameSite)
	// access_token: 12h, path=/, domain="", secure, HttpOnly
	c.SetCookie("access_token", accessToken, 3600*12, "/", "", secure, true)
	// refresh_token: 7 days, path=/, domain="", secure, HttpOnly
	c.SetCookie("refresh_token", refreshToken, 3600*24*7, "/", "", secure, true)
}

// ClearTokenCookies removes access_token and refresh_token cookies
func ClearTokenCookies(c *gin.Context) {
	sameSite := http.SameSiteLaxMode
	secure := false
	if os.Getenv("GIN_MODE") == "release" || os.Getenv("RENDER") != "" {
		sameSite = http.SameSiteNoneMode
		secure = true
	}

	c.SetSameSite(sameSite)
	c.SetCookie("access_token", "", -1, "/", "", secure, true)
	c.SetCookie("refresh_token", "", -1, "/", "", secure, true)
}

// extractToken reads the JWT from the access_token cookie, falling back to
// the Authorization header.
func extractToken(c *gin.Context) (string, bool) {
	tokenString, cookieErr := c.Cookie("access_token")
	if cookieErr == nil && tokenString != "" {
		return tokenString, true
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// parseClaims validates the token signature and returns its claims
func parseClaims(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return GetJWTSecret(), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// setUserContext stores identity claims for handlers downstream
func setUserContext(c *gin.Context, claims jwt.MapClaims) string {
	userRole, _ := claims["role"].(string)
	c.Set("userID", claims["sub"])
	c.Set("userRole", userRole)
	if storeID, ok := claims["store_id"].(string); ok {
		c.Set("storeID", storeID)
	}
	return userRole
}

// RequireRole validates the JWT token and checks if the user's role exists in the allowedRoles list
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := extractToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing or malformed"))
			return
		}

		claims, err := parseClaims(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token: "+err.Error()))
			return
		}

		userRole := setUserContext(c, claims)
		if userRole == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Role not found in token"))
			return
		}

		// SuperAdmin passes every role gate
		if userRole == model.RoleSuperAdmin {
			c.Next()
			return
		}

		for _, role := range allowedRoles {
			if userRole == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: insufficient permissions"))
	}
}

// RequireMinRole validates the JWT and checks the user's rank in the approval
// hierarchy against a minimum role. Ranks follow the requisition chain, with
// admin roles above it.
func RequireMinRole(minRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := extractToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing or malformed"))
			return
		}

		claims, err := parseClaims(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token: "+err.Error()))
			return
		}

		userRole := setUserContext(c, claims)
		if roleRank(userRole) < roleRank(minRole) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: insufficient rank"))
			return
		}

		c.Next()
	}
}

// roleRank orders roles from requester up through the approval chain to admin.
// Unknown roles rank below everything.
func roleRank(role string) int {
	switch role {
	case model.RoleStoreInCharge:
		return 1
	case model.RoleJE:
		return 2
	case model.RoleAEE:
		return 3
	case model.RoleEEE:
		return 4
	case model.RoleESE:
		return 5
	case model.RoleCE:
		return 6
	case model.RoleAdmin:
		return 7
	case model.RoleSuperAdmin:
		return 8
	default:
		return 0
	}
}
