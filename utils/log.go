package utils

import (
	"log"
	"strings"
	"unicode"

	"github.com/rehiko/picstash/config"
)

// LogIfDevf 仅在开发环境输出的调试日志
func LogIfDevf(format string, args ...interface{}) {
	if config.IsDevelopment() {
		log.Printf(format, args...)
	}
}

// SanitizeLogMessage 过滤日志中的控制字符，防止日志注入
func SanitizeLogMessage(msg string) string {
	var sb strings.Builder
	for _, r := range msg {
		if r == 10 || r == 9 {
			sb.WriteRune(r)
		} else if unicode.IsPrint(r) || unicode.IsGraphic(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// SanitizeLogUsername 截断并过滤用户名用于日志输出
func SanitizeLogUsername(username string) string {
	if len(username) > 50 {
		username = username[:50] + "..."
	}
	return SanitizeLogMessage(username)
}
