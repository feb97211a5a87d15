// Package errs 定义服务层与仓库层共享的领域错误分类。
// 调用方通过 errors.Is 判断类别，api 层据此映射 HTTP 状态码。
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated 请求缺少调用者身份
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden 调用者不是资源所有者
	ErrForbidden = errors.New("access denied")

	// ErrNotFound 引用的合集或关联不存在
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput 输入校验失败
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict 唯一性冲突
	ErrConflict = errors.New("conflict")

	// ErrInternal 意外的存储或传输错误
	ErrInternal = errors.New("internal error")
)

// Wrap 给错误附加操作名，保留哨兵错误供 errors.Is 判断
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// WithMessage 将用户可读信息归类到指定哨兵错误
func WithMessage(kind error, msg string) error {
	return fmt.Errorf("%w: %s", kind, msg)
}

// Internal 将底层存储错误包装为内部错误，原始错误保留在错误链中便于日志输出
func Internal(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrInternal, err)
}
