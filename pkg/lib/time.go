package lib

import (
	"time"

	"github.com/RussellLuo/timingwheel"
)

// Wheel 时间轮，用于延迟投递
type Wheel struct {
	tw *timingwheel.TimingWheel
}

func NewWheel(tick time.Duration, size int64) *Wheel {
	if tick <= 0 {
		tick = time.Millisecond
	}
	w := &Wheel{tw: timingwheel.NewTimingWheel(tick, size)}
	w.tw.Start()
	return w
}

// AfterFunc 注册一次性定时器，到期后执行回调
func (w *Wheel) AfterFunc(duration time.Duration, callback func()) *timingwheel.Timer {
	return w.tw.AfterFunc(duration, func() {
		if callback != nil {
			callback()
		}
	})
}

func (w *Wheel) Stop() {
	w.tw.Stop()
}
