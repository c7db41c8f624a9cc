package logger

import (
	"testing"

	"github.com/Gall-ardo/ProctorHub-sub002/config"
)

func TestNewLogger_Formats(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		l, err := NewLogger(&config.LogConfig{Level: "debug", Format: format})
		if err != nil {
			t.Fatalf("格式 %s 初始化失败: %v", format, err)
		}
		_ = l.Sync()
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	if _, err := NewLogger(&config.LogConfig{Level: "loud", Format: "json"}); err == nil {
		t.Error("期望无效日志级别返回错误")
	}
}
