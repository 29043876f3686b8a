// api/handlers/download_handlers.go
package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	downloadTokenTTL = 5 * time.Minute
	downloadFileName = "devflux-package.zip"
)

// DownloadClaims binds a short-lived download token to the payment it was
// issued for.
type DownloadClaims struct {
	PaymentID string `json:"paymentId"`
	jwt.RegisteredClaims
}

type DownloadHandlers struct {
	secret []byte
	dir    string
}

// NewDownloadHandlers reads the signing secret and archive directory from
// the environment. Unlike the dashboard secret, a default signing secret is
// tolerated here: a guessed token only reaches a product archive, not
// visitor data.
func NewDownloadHandlers() *DownloadHandlers {
	secret := os.Getenv("DOWNLOAD_SECRET")
	if secret == "" {
		secret = "default-download-secret"
	}
	dir := os.Getenv("DOWNLOAD_DIR")
	if dir == "" {
		dir = "protected"
	}
	return &DownloadHandlers{secret: []byte(secret), dir: dir}
}

// GenerateToken signs a download token valid for five minutes.
func (h *DownloadHandlers) GenerateToken(paymentID string, now time.Time) (string, error) {
	claims := DownloadClaims{
		PaymentID: paymentID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(downloadTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign download token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks signature and expiry, returning the claims on success.
func (h *DownloadHandlers) VerifyToken(tokenString string) (*DownloadClaims, error) {
	claims := &DownloadClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return h.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid download token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid download token")
	}
	return claims, nil
}

// MintToken issues a download link for an operator. The payment glue that
// originally minted tokens after gateway verification lives outside this
// service, so minting sits behind the dashboard secret instead.
func (h *DownloadHandlers) MintToken(c *gin.Context) {
	paymentID := c.Query("paymentId")
	if paymentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "paymentId is required", "field": "paymentId"})
		return
	}

	now := time.Now().UTC()
	token, err := h.GenerateToken(paymentID, now)
	if err != nil {
		log.Printf("Error generating download token for payment %s: %v", paymentID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"expires": now.Add(downloadTokenTTL).Unix(),
	})
}

// Download verifies the token and streams the product archive.
func (h *DownloadHandlers) Download(c *gin.Context) {
	claims, err := h.VerifyToken(c.Param("token"))
	if err != nil {
		log.Printf("Download token rejected: %v", err)
		c.JSON(http.StatusForbidden, gin.H{"message": "Invalid or expired download token"})
		return
	}

	filePath := filepath.Join(h.dir, downloadFileName)
	if _, err := os.Stat(filePath); err != nil {
		log.Printf("Download file not found: %s", filePath)
		c.JSON(http.StatusNotFound, gin.H{"message": "Download file not found"})
		return
	}

	log.Printf("Download initiated for payment: %s", claims.PaymentID)
	c.FileAttachment(filePath, downloadFileName)
}
