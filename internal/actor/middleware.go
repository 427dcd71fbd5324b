package actor

// compose 把中间件合成一个，第一个在最外层；nil 被忽略
func compose(middlewares []TaskMiddleware) TaskMiddleware {
	stack := make([]TaskMiddleware, 0, len(middlewares))
	for _, mw := range middlewares {
		if mw != nil {
			stack = append(stack, mw)
		}
	}
	return func(task Task) Task {
		for i := len(stack) - 1; i >= 0; i-- {
			task = stack[i](task)
		}
		return task
	}
}
