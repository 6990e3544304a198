package utils

// ErrorKind 业务错误分类
type ErrorKind int

const (
	KindValidation   ErrorKind = iota // 参数缺失/非法
	KindUnauthorized                  // 未认证/凭证无效
	KindForbidden                     // 无权限（非接收者、非所有者、非管理员）
	KindNotFound                      // 引用的实体不存在
	KindConflict                      // 状态冲突（重复请求、已是好友、请求已处理）
	KindUpstream                      // 依赖服务失败（对象存储等）
)

// AppError 结构化业务错误，handler 层统一映射为响应
type AppError struct {
	Kind    ErrorKind
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func ErrInvalid(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func ErrUnauthorized(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: message}
}

func ErrForbidden(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}

func ErrNotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func ErrConflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func ErrUpstream(message string) *AppError {
	return &AppError{Kind: KindUpstream, Message: message}
}
