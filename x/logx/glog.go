//go:build !tinygo

package logx

import (
	"fmt"

	"github.com/golang/glog"
)

// Glog routes log lines through glog. Debug lines need -v=2.
type Glog struct{}

func (Glog) Infof(format string, args ...any) { glog.InfoDepth(1, fmt.Sprintf(format, args...)) }
func (Glog) Warnf(format string, args ...any) { glog.WarningDepth(1, fmt.Sprintf(format, args...)) }
func (Glog) Debugf(format string, args ...any) {
	if glog.V(2) {
		glog.InfoDepth(1, fmt.Sprintf(format, args...))
	}
}
