package utils

import (
	"time"

	"github.com/gin-gonic/gin"
)

func SetAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	setCookie(c, "accessToken", accessToken, AccessTokenExpiry)
	setCookie(c, "refreshToken", refreshToken, RefreshTokenExpiry)
}

func ClearAuthCookies(c *gin.Context) {
	setCookie(c, "accessToken", "", -time.Second)
	setCookie(c, "refreshToken", "", -time.Second)
}

func setCookie(c *gin.Context, name, value string, expiry time.Duration) {
	// Plain HTTP is only allowed in debug mode.
	secure := gin.Mode() != gin.DebugMode
	c.SetCookie(name, value, int(expiry.Seconds()), "/", "", secure, true)
}
