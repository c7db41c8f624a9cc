package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestKinds_SurviveWrapping(t *testing.T) {
	specific := fmt.Errorf("%w: 换班申请不存在", ErrNotFound)
	wrapped := fmt.Errorf("执行换班失败: %w", specific)

	if !errors.Is(wrapped, specific) {
		t.Error("期望能识别具体错误")
	}
	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("期望能识别错误类别 ErrNotFound")
	}
	if errors.Is(wrapped, ErrAlreadyProcessed) {
		t.Error("不应识别为 ErrAlreadyProcessed")
	}
}
