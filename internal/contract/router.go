package contract

import (
	"reflect"
	"sync"

	"github.com/3ugen/challenge9-call-cross-contract/internal/errs"
	"github.com/3ugen/challenge9-call-cross-contract/internal/iface"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/lib"
	"golang.org/x/exp/slices"
)

// Router 按方法名分发合约调用
// 支持两种签名:
//
//	func(env iface.IEnv) (iface.PromiseOrValue, error)
//	func(env iface.IEnv, args *T) (iface.PromiseOrValue, error)
type Router struct {
	mu     sync.RWMutex
	routes map[string]routerEntry
}

type routerEntry struct {
	handler reflect.Value
	// argsType 参数类型，nil 表示无参数
	argsType reflect.Type
}

func NewRouter() *Router {
	return &Router{
		routes: make(map[string]routerEntry),
	}
}

var (
	typeOfEnv            = reflect.TypeOf((*iface.IEnv)(nil)).Elem()
	typeOfError          = reflect.TypeOf((*error)(nil)).Elem()
	typeOfPromiseOrValue = reflect.TypeOf(iface.PromiseOrValue{})
)

func mustRegister(r *Router, method string, handler interface{}) {
	if err := r.Register(method, handler); err != nil {
		panic(err)
	}
}

func (r *Router) Register(method string, handler interface{}) error {
	if handler == nil {
		return errs.ErrHandlerIsNil()
	}

	handlerValue := reflect.ValueOf(handler)
	handlerFuncType := handlerValue.Type()
	if handlerFuncType.Kind() != reflect.Func {
		return errs.ErrHandlerMustBeFunction(handlerFuncType.Kind().String())
	}

	numIn := handlerFuncType.NumIn()
	if numIn < 1 || numIn > 2 {
		return errs.ErrHandlerParameterCount(numIn)
	}
	// 第一个参数必须是 IEnv
	if handlerFuncType.In(0) != typeOfEnv {
		return errs.ErrHandlerFirstParameterMustBeEnv()
	}
	if handlerFuncType.NumOut() != 2 ||
		handlerFuncType.Out(0) != typeOfPromiseOrValue ||
		!handlerFuncType.Out(1).Implements(typeOfError) {
		return errs.ErrHandlerReturnType()
	}

	entry := routerEntry{handler: handlerValue}
	if numIn == 2 {
		argsType := handlerFuncType.In(1)
		if argsType.Kind() != reflect.Pointer {
			return errs.ErrHandlerArgsParameter(argsType.String())
		}
		entry.argsType = argsType
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.routes[method]; exists {
		return errs.ErrHandlerAlreadyRegistered(method)
	}
	r.routes[method] = entry
	return nil
}

// Handle 执行 method，参数从 env.Input() 反序列化
func (r *Router) Handle(env iface.IEnv, method string) (iface.PromiseOrValue, error) {
	r.mu.RLock()
	entry, ok := r.routes[method]
	r.mu.RUnlock()
	if !ok {
		return iface.PromiseOrValue{}, errs.ErrMethodNotExported(method)
	}

	args := []reflect.Value{reflect.ValueOf(env)}
	if entry.argsType != nil {
		argsValue, err := r.createArgsValue(entry.argsType, env.Input())
		if err != nil {
			return iface.PromiseOrValue{}, errs.ErrUnmarshalArgs(method, err)
		}
		args = append(args, argsValue)
	}

	results := entry.handler.Call(args)
	var err error
	if !results[1].IsNil() {
		err = results[1].Interface().(error)
	}
	return results[0].Interface().(iface.PromiseOrValue), err
}

// createArgsValue 空输入按 {} 处理
func (r *Router) createArgsValue(argsType reflect.Type, input []byte) (reflect.Value, error) {
	argsValue := reflect.New(argsType.Elem())
	if len(input) == 0 {
		return argsValue, nil
	}
	if err := lib.Json.Unmarshal(input, argsValue.Interface()); err != nil {
		return reflect.Value{}, err
	}
	return argsValue, nil
}

// HasRoute 判断方法是否导出
func (r *Router) HasRoute(method string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.routes[method]
	return exists
}

// Methods 返回排序后的方法名
func (r *Router) Methods() []string {
	r.mu.RLock()
	methods := make([]string, 0, len(r.routes))
	for method := range r.routes {
		methods = append(methods, method)
	}
	r.mu.RUnlock()
	slices.Sort(methods)
	return methods
}
