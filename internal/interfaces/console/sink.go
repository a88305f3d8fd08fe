package console

import (
	"fmt"
	"time"

	"vdash/internal/application/port"
)

const (
	colReset  = "\033[0m"
	colGreen  = "\033[32m"
	colYellow = "\033[33m"
	colRed    = "\033[31m"
)

type Sink struct{}

func NewSink() port.Sink { return &Sink{} }

func (s *Sink) WriteLive(line string) error {
	fmt.Print(line) // no newline
	return nil
}

func (s *Sink) WriteStatus(connected bool) error {
	if connected {
		fmt.Printf("\n%s● connected%s\n", colGreen, colReset)
	} else {
		fmt.Printf("\n%s● disconnected%s\n", colRed, colReset)
	}
	return nil
}

// 打印通知行后换行占位；live 行等下一次变化刷新
func (s *Sink) WriteNotice(ts time.Time, level port.NoticeLevel, msg string) error {
	col := colGreen
	switch level {
	case port.NoticeWarning:
		col = colYellow
	case port.NoticeError:
		col = colRed
	}
	fmt.Print("\n")
	fmt.Printf("%s %s[%s]%s %s\n", ts.Format("2006-01-02 15:04:05"), col, level, colReset, msg)
	return nil
}
