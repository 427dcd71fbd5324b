package errs

import (
	"errors"
	"fmt"
)

// ========== Codec 相关错误 ==========

var (
	// ErrDecode 对端返回的数据无法解析为 BalanceExt
	ErrDecode = errors.New("codec: can't decode balance record")
	// ErrEncode 序列化失败
	ErrEncode = errors.New("codec: can't encode balance record")
)

func ErrDecodeCause(err error) error {
	return fmt.Errorf("%w: %v", ErrDecode, err)
}

// ========== Contract 相关错误 ==========

var (
	// ErrTooManyResults 回调只允许存在一个 promise 结果
	ErrTooManyResults = errors.New("ERR_TOO_MANY_RESULTS")
	// ErrPrivateMethod 私有方法只能由合约自身调用
	ErrPrivateMethod = errors.New("method is private")
	// ErrInvalidAccountId 账户名不合法
	ErrInvalidAccountId = errors.New("invalid account id")
	// ErrMethodNotFound 合约未导出该方法
	ErrMethodNotFound = errors.New("contract method not found")
	// ErrInvalidArgs 方法参数无法解析
	ErrInvalidArgs = errors.New("invalid method args")
)

func ErrInvalidAccount(id string) error {
	return fmt.Errorf("%w: %q", ErrInvalidAccountId, id)
}

func ErrMethodNotExported(method string) error {
	return fmt.Errorf("%w: %s", ErrMethodNotFound, method)
}

func ErrUnmarshalArgs(method string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrInvalidArgs, method, err)
}

// ========== Router 相关错误 ==========

func ErrHandlerIsNil() error {
	return fmt.Errorf("router: handler is nil")
}

func ErrHandlerMustBeFunction(kind string) error {
	return fmt.Errorf("router: handler must be function, got %s", kind)
}

func ErrHandlerParameterCount(count int) error {
	return fmt.Errorf("router: unsupported parameter count: %d", count)
}

func ErrHandlerFirstParameterMustBeEnv() error {
	return fmt.Errorf("router: first parameter must be iface.IEnv")
}

func ErrHandlerArgsParameter(typ string) error {
	return fmt.Errorf("router: args parameter must be pointer, got %s", typ)
}

func ErrHandlerReturnType() error {
	return fmt.Errorf("router: handler must return (iface.PromiseOrValue, error)")
}

func ErrHandlerAlreadyRegistered(method string) error {
	return fmt.Errorf("router: method %s already registered", method)
}

// ========== Host 相关错误 ==========

var (
	// ErrAccountNotFound 账户不存在
	ErrAccountNotFound = errors.New("account does not exist")
	// ErrAccountExists 账户已存在
	ErrAccountExists = errors.New("account already exists")
	// ErrInsufficientBalance 余额不足以支付转账或附加存款
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrExceededPrepaidGas 执行或附加的 gas 超出预付额度
	ErrExceededPrepaidGas = errors.New("exceeded the prepaid gas")
	// ErrPromiseInView 只读调用不能创建 promise
	ErrPromiseInView = errors.New("promise is not allowed in view call")
	// ErrHostShuttingDown 宿主正在关闭
	ErrHostShuttingDown = errors.New("host is shutting down")
	// ErrNotContract 账户未部署合约
	ErrNotContract = errors.New("account has no contract")
)

func ErrAccountMissing(id string) error {
	return fmt.Errorf("%w: %s", ErrAccountNotFound, id)
}

func ErrAccountDuplicated(id string) error {
	return fmt.Errorf("%w: %s", ErrAccountExists, id)
}

func ErrMethodPanic(method string, r interface{}) error {
	return fmt.Errorf("method %s panicked: %v", method, r)
}

// ========== Actor 相关错误 ==========

var (
	// ErrProcessNotFound 进程未找到
	ErrProcessNotFound = errors.New("process not found")
	// ErrProcessExiting 进程正在退出
	ErrProcessExiting = errors.New("process is exiting")
	// ErrTaskIsNil 任务为空
	ErrTaskIsNil = errors.New("task is nil")
	// ErrSystemShuttingDown 系统正在关闭
	ErrSystemShuttingDown = errors.New("system is shutting down")
)

// ========== Gate 相关错误 ==========

var (
	ErrInvalidCodecMessageType = errors.New("gate: invalid message type")
	ErrFrameTooLarge           = errors.New("gate: frame too large")
	ErrUnknownCommand          = errors.New("gate: unknown command")
)

// ========== Config 相关错误 ==========

func ErrReadConfigFileFailed(err error) error {
	return fmt.Errorf("read config file failed: %w", err)
}

func ErrUnmarshalConfigFailed(err error) error {
	return fmt.Errorf("unmarshal config failed: %w", err)
}

func ErrInvalidConfig(field string, err error) error {
	return fmt.Errorf("invalid config %s: %w", field, err)
}
