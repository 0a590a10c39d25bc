// Copyright 2015 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package debug wires logging and profiling to the command line.
//
// Package debug 将日志记录和性能分析接入命令行。
package debug

import (
	"errors"
	"io"
	"os"
	"runtime/pprof"
	"sync"

	"github.com/ethereum/go-ethereum/log"
	"github.com/sunyihoo/go-solidity/internal/flags"
)

// Handler is the global profiling handler.
// Handler 是全局性能分析处理程序。
var Handler = new(HandlerT)

// HandlerT tracks the running CPU profile. Use the Handler variable instead
// of creating values of this type.
// HandlerT 跟踪正在运行的 CPU 性能分析，请使用 Handler 变量而不是创建此类型的值。
type HandlerT struct {
	mu      sync.Mutex
	cpuW    io.WriteCloser
	cpuFile string
}

// StartCPUProfile turns on CPU profiling, writing to the given file.
// StartCPUProfile 启动 CPU 性能分析，将数据写入指定的文件。
func (h *HandlerT) StartCPUProfile(file string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cpuW != nil {
		return errors.New("CPU profiling already in progress")
	}
	var d flags.DirectoryString
	d.Set(file)
	f, err := os.Create(d.String())
	if err != nil {
		return err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return err
	}
	h.cpuW = f
	h.cpuFile = file
	log.Info("CPU profiling started", "dump", h.cpuFile)
	return nil
}

// StopCPUProfile stops an ongoing CPU profile.
// StopCPUProfile 停止正在进行的 CPU 性能分析。
func (h *HandlerT) StopCPUProfile() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	pprof.StopCPUProfile()
	if h.cpuW == nil {
		return errors.New("CPU profiling not in progress")
	}
	log.Info("Done writing CPU profile", "dump", h.cpuFile)
	h.cpuW.Close()
	h.cpuW = nil
	h.cpuFile = ""
	return nil
}
