// Package handle 提供请求处理器的实现，处理上传与取回的 HTTP 边界.
package handle

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/swft/pkg/configs"
	"github.com/yeisme/swft/pkg/internal/service"
	"github.com/yeisme/swft/pkg/internal/types"
	"github.com/yeisme/swft/pkg/log"
)

// UploadShare 处理文件上传.
//
// 表单字段：
//   - file  必填，上传的文件
//   - link  可选，自定义链接；缺省使用落盘文件名
//   - time  可选，保留小时数（可为小数）；缺省使用服务默认值
//   - email 可选，上传完成后发送通知
//
// Accept 包含 json 时返回 JSON，否则返回纯文本分享地址（方便 curl）.
func UploadShare(c *gin.Context) {
	l := log.Logger()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.String(http.StatusBadRequest, "No file provided\n")

		return
	}

	if fileHeader.Filename == "" {
		c.String(http.StatusBadRequest, "No selected file\n")

		return
	}

	ttlHours := configs.GetConfig().Share.DefaultTTLHours

	if raw := c.PostForm("time"); raw != "" {
		ttlHours, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			c.String(http.StatusBadRequest, "Invalid time\n")

			return
		}
	}

	f, err := fileHeader.Open()
	if err != nil {
		l.Error().Err(err).Msg("open multipart file failed")
		c.String(http.StatusInternalServerError, "Error: %v\n", err)

		return
	}
	defer f.Close()

	req := &types.IngestRequest{
		FileName: fileHeader.Filename,
		Body:     f,
		Size:     fileHeader.Size,
		Link:     c.PostForm("link"),
		TTLHours: ttlHours,
		Email:    c.PostForm("email"),
	}

	svc := service.NewShareService(c.Request.Context())

	resp, err := svc.Ingest(c.Request.Context(), req)
	if err != nil {
		status, msg := uploadError(err)
		c.String(status, "%s", msg)

		return
	}

	if strings.Contains(c.GetHeader("Accept"), "json") {
		c.JSON(http.StatusOK, resp)

		return
	}

	c.String(http.StatusOK, "%s\n", resp.URL)
}

// uploadError 将业务错误映射为 HTTP 状态与响应文本.
func uploadError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrNoFile):
		return http.StatusBadRequest, "No selected file\n"
	case errors.Is(err, service.ErrInvalidTTL):
		return http.StatusBadRequest, "Invalid time\n"
	case errors.Is(err, service.ErrLinkTaken):
		return http.StatusBadRequest, "Link already taken\n"
	case errors.Is(err, service.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "File too large\n"
	case errors.Is(err, service.ErrCapacityExceeded):
		return http.StatusRequestEntityTooLarge, "Server Space Full :/\nTry again later\n"
	default:
		return http.StatusInternalServerError, fmt.Sprintf("Error: %v\n", err)
	}
}

// DownloadShare 按链接取回文件. 图片类扩展名内联展示，其余作为附件下载.
func DownloadShare(c *gin.Context) {
	l := log.Logger()

	link := c.Param("link")

	svc := service.NewShareService(c.Request.Context())

	rec, f, err := svc.Retrieve(c.Request.Context(), link, c.ClientIP())
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.String(http.StatusNotFound, "Invalid link\n")

			return
		}

		l.Error().Err(err).Str("link", link).Msg("retrieve failed")
		c.String(http.StatusInternalServerError, "Error: %v\n", err)

		return
	}
	defer f.Close()

	disposition := "attachment"
	if service.InlineDisposition(rec.StorageName) {
		disposition = "inline"
	}

	c.Header("Content-Disposition",
		fmt.Sprintf(`%s; filename="%s"`, disposition, escapeFilename(rec.StorageName)))

	info, err := f.Stat()
	if err != nil {
		l.Error().Err(err).Str("link", link).Msg("stat blob failed")
		c.String(http.StatusInternalServerError, "Error: %v\n", err)

		return
	}

	http.ServeContent(c.Writer, c.Request, rec.StorageName, info.ModTime(), f)
}

// escapeFilename 转义文件名中的引号与换行等.
func escapeFilename(s string) string {
	replacer := strings.NewReplacer("\\", "_", "\"", "_", ";", "_", "\n", "_", "\r", "_")

	return replacer.Replace(s)
}
