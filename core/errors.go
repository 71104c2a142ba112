package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和模块（Module），上层按此分诊
//   - 生成器内部的失败永远不向调用方透出，链路级失败（存储不可用、
//     目标用户无法解析）以类型化错误透出，区别于"结果为空"
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "EXTERNAL"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "metadata"）
	Err     error  // 底层原因，可为 nil
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewDomainError 创建新的领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{Module: module, Code: code, Message: message}
}

// WrapDomainError 创建携带底层原因的领域错误。
func WrapDomainError(module, code, message string, err error) *DomainError {
	return &DomainError{Module: module, Code: code, Message: message, Err: err}
}

// GetDomainError 获取 DomainError，如果不是则返回 nil。
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// 错误代码常量
const (
	ErrorCodeNotFound     = "NOT_FOUND"     // 资源不存在
	ErrorCodeExternal     = "EXTERNAL"      // 外部服务不可达 / 限流 / 响应异常
	ErrorCodeUnavailable  = "UNAVAILABLE"   // 服务不可用
	ErrorCodeInvalidInput = "INVALID_INPUT" // 输入无效
)

// 模块名称常量
const (
	ModuleStore    = "store"    // 交互存储
	ModuleMetadata = "metadata" // 元数据服务
	ModuleService  = "service"  // 编排服务
)

func hasCode(err error, module, code string) bool {
	domainErr := GetDomainError(err)
	if domainErr == nil {
		return false
	}
	if module != "" && domainErr.Module != module {
		return false
	}
	return domainErr.Code == code
}

// IsNotFound 检查错误是否为 NOT_FOUND。
func IsNotFound(err error) bool {
	return hasCode(err, "", ErrorCodeNotFound)
}

// IsExternalService 检查错误是否为元数据服务失败（不可达、限流、响应异常、超时）。
func IsExternalService(err error) bool {
	return hasCode(err, ModuleMetadata, ErrorCodeExternal)
}

// IsStoreUnavailable 检查错误是否为交互存储不可用。对链路而言这是致命错误。
func IsStoreUnavailable(err error) bool {
	return hasCode(err, ModuleStore, ErrorCodeUnavailable)
}
