package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"lsbacktest/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

const contextUserKey = "userID"

type TokenClaims struct {
	Subject   string  `json:"sub"`
	Role      string  `json:"role"`
	Email     *string `json:"email"`
	IssuedAt  int64   `json:"iat"`
	ExpiresAt int64   `json:"exp"`
}

func parseJWT(jwtStr string, decodeToken string) (*TokenClaims, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(decodeToken), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("failed to parse claims")
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal claims: %w", err)
	}
	var parsed TokenClaims
	if err := json.Unmarshal(claimsJSON, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal claims: %w", err)
	}

	if time.Now().UTC().Unix() > parsed.ExpiresAt {
		return nil, fmt.Errorf("jwt is expired")
	}
	if parsed.Subject == "" {
		return nil, fmt.Errorf("jwt has no subject")
	}

	return &parsed, nil
}

func authMiddleware(decodeToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if decodeToken == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		tokenStr, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenStr == "" {
			returnErrorJsonCode(fmt.Errorf("missing bearer token"), c, http.StatusUnauthorized)
			return
		}

		claims, err := parseJWT(tokenStr, decodeToken)
		if err != nil {
			returnErrorJsonCode(err, c, http.StatusUnauthorized)
			return
		}

		c.Set(contextUserKey, claims.Subject)
		c.Request = c.Request.WithContext(
			logger.WithFields(c.Request.Context(), "user", claims.Subject),
		)
		c.Next()
	}
}
