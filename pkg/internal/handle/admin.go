package handle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/swft/pkg/internal/service"
	"github.com/yeisme/swft/pkg/log"
)

// AdminListShares 管理端列出全部活跃分享及当前磁盘占用.
func AdminListShares(c *gin.Context) {
	svc := service.NewShareService(c.Request.Context())

	resp, err := svc.ListShares(c.Request.Context())
	if err != nil {
		log.Logger().Error().Err(err).Msg("list shares failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, resp)
}

// AdminDeleteShare 管理端提前删除一条分享.
func AdminDeleteShare(c *gin.Context) {
	link := c.Param("link")

	actor, _, _ := c.Request.BasicAuth()

	svc := service.NewShareService(c.Request.Context())

	if err := svc.DeleteShare(c.Request.Context(), link, actor); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "link not found"})

			return
		}

		log.Logger().Error().Err(err).Str("link", link).Msg("admin delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": link})
}
