package admin

import (
	"net/http"

	"github.com/akeren/waitlist-foundry/config/router"
	"github.com/akeren/waitlist-foundry/internal/log"
	"github.com/akeren/waitlist-foundry/pkg/constants"
	"github.com/gin-gonic/gin"
)

const MessageCredentialsNotConfigured = "Admin credentials not configured"

type Credentials struct {
	Username string
	Password string
	Realm    string
}

func (c Credentials) Configured() bool {
	return c.Username != "" && c.Password != ""
}

// BasicAuth challenges with 401 on missing or wrong credentials. When no credentials
// are configured the route fails with 500 instead of silently opening up.
func BasicAuth(creds Credentials, logger *log.Logger) router.MiddlewareFunc {
	if !creds.Configured() {
		return func(c *router.RequestContext) {
			logger.Error("Admin route requested but ADMIN_USER/ADMIN_PASS are not set")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": MessageCredentialsNotConfigured})
		}
	}

	realm := creds.Realm
	if realm == "" {
		realm = constants.DefaultAdminRealm
	}
	return gin.BasicAuthForRealm(gin.Accounts{creds.Username: creds.Password}, realm)
}
