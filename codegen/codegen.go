// Copyright 2025 The go-ethereum Authors
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

// Package codegen emits EVM bytecode for the first contract of a checked
// program.
//
// The code starts with a dispatcher comparing the call data selector with
// the selector of every external or public function, followed by INVALID
// and one landing pad per function:
//
//	PUSH1 0 CALLDATALOAD PUSH1 0xe0 SHR
//	DUP1 PUSH4 <selector> EQ PUSH<w> <pad> JUMPI   ; per function
//	INVALID
//	JUMPDEST POP <body> STOP                       ; per function
//
// Function bodies are generated first and in isolation. The dispatcher has
// a fixed size per function, so the landing pad offsets follow from the body
// sizes alone.
//
// Package codegen 为已检查程序中的第一个合约生成 EVM 字节码。
// 代码以分发器开头，将调用数据中的选择器与每个 external 或 public 函数的选择器比较，
// 之后是 INVALID 和每个函数的着陆块。函数体首先被独立生成，分发器每个函数的大小固定，
// 因此着陆块的偏移量只取决于函数体的大小。
package codegen

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/log"

	"github.com/sunyihoo/go-solidity/abi"
	"github.com/sunyihoo/go-solidity/ast"
	"github.com/sunyihoo/go-solidity/checker"
	"github.com/sunyihoo/go-solidity/diag"
)

// ErrCodeTooLarge is returned when a jump destination does not fit in the
// configured address width.
var ErrCodeTooLarge = errors.New("code too large for jump address width")

// Config tunes the code layout.
// Config 调整代码布局。
type Config struct {
	JumpAddressWidth int    // bytes of a jump destination, 1 to 4
	FreeMemoryStart  uint64 // first free memory byte of every function
}

// DefaultConfig reserves the two scratch words and the free memory pointer
// slot of the usual memory layout.
var DefaultConfig = Config{
	JumpAddressWidth: 2,
	FreeMemoryStart:  0x80,
}

func (c Config) validate() error {
	if c.JumpAddressWidth < 1 || c.JumpAddressWidth > 4 {
		return fmt.Errorf("invalid jump address width %d", c.JumpAddressWidth)
	}
	if c.FreeMemoryStart%32 != 0 {
		return fmt.Errorf("free memory start %#x is not word aligned", c.FreeMemoryStart)
	}
	return nil
}

// Contract is a compiled contract.
// Contract 是编译后的合约。
type Contract struct {
	Name string
	ABI  []abi.Entry
	Code []byte
}

// dispatchEntry is a function linked into the dispatcher.
type dispatchEntry struct {
	selector [4]byte
	body     *program
}

const (
	dispatchHeaderSize = 6 // PUSH1 0 CALLDATALOAD PUSH1 0xe0 SHR
	landingPadSize     = 3 // JUMPDEST POP ... STOP
)

// caseSize is the size of one comparison block of the dispatcher.
func caseSize(width int) int {
	return 1 + 5 + 1 + 1 + width + 1 // DUP1 PUSH4 sel EQ PUSHw dest JUMPI
}

// Compile generates the bytecode of the first contract of the program.
// Functions declared outside a contract are compiled but not linked.
// Compile 生成程序中第一个合约的字节码。合约之外声明的函数会被编译但不会被链接。
func Compile(prog *ast.Program, ann *checker.Annotations, cfg Config) (*Contract, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	iface, err := abi.CompileABI(prog)
	if err != nil {
		return nil, err
	}
	for _, unit := range prog.Units {
		switch def := unit.(type) {
		case *ast.FunctionDefinition:
			g := newGenerator(ann, cfg, nil)
			if _, err := g.function(def); err != nil {
				return nil, err
			}
		case *ast.ContractDefinition:
			code, err := compileContract(def, ann, cfg)
			if err != nil {
				return nil, err
			}
			return &Contract{Name: def.Name, ABI: iface.Entries, Code: code}, nil
		}
	}
	return nil, abi.ErrNoContract
}

func compileContract(def *ast.ContractDefinition, ann *checker.Annotations, cfg Config) ([]byte, error) {
	var entries []dispatchEntry
	for _, member := range def.Members {
		switch m := member.(type) {
		case *ast.FunctionDefinition:
			g := newGenerator(ann, cfg, def)
			body, err := g.function(m)
			if err != nil {
				return nil, err
			}
			if !m.IsDispatchable() {
				continue
			}
			entry, err := abi.EntryOf(m)
			if err != nil {
				return nil, err
			}
			entries = append(entries, dispatchEntry{selector: entry.Selector(), body: body})
		case *ast.VariableDeclaration:
			return nil, diag.NotImplemented("state variable", m.Span())
		case *ast.StructDefinition:
			return nil, diag.NotImplemented("struct", m.Span())
		case *ast.ModifierDefinition:
			return nil, diag.NotImplemented("modifier", m.Span())
		case *ast.EventDefinition, *ast.ErrorDefinition:
			// Declarations only, used by emit and revert.
		default:
			return nil, diag.NotImplemented(fmt.Sprintf("contract member %T", member), member.Span())
		}
	}
	return link(entries, cfg.JumpAddressWidth)
}

// link lays out the dispatcher and the landing pads. The dispatcher size
// only depends on the number of functions, so every pad offset is known
// before the dispatcher is emitted.
// link 布局分发器和着陆块。分发器的大小只取决于函数数量，因此每个着陆块的偏移量在发出分发器之前即可确定。
func link(entries []dispatchEntry, width int) ([]byte, error) {
	offset := dispatchHeaderSize + len(entries)*caseSize(width) + 1 // INVALID
	pads := make([]int, len(entries))
	for i, e := range entries {
		pads[i] = offset
		offset += landingPadSize + e.body.len()
	}
	if limit := 1 << (8 * uint(width)); len(pads) > 0 && pads[len(pads)-1] >= limit {
		return nil, fmt.Errorf("%w: landing pad %#x needs more than %d bytes", ErrCodeTooLarge, pads[len(pads)-1], width)
	}

	d := newProgram(width)
	d.pushUint(0)
	d.op(vm.CALLDATALOAD)
	d.pushUint(0xe0)
	d.op(vm.SHR)
	for i, e := range entries {
		d.op(vm.DUP1)
		d.pushBytes(e.selector[:])
		d.op(vm.EQ)
		d.pushBytes(addressBytes(pads[i], width))
		d.op(vm.JUMPI)
	}
	d.op(vm.INVALID)
	if d.len() != pads0(pads, offset) {
		return nil, diag.Invariant("dispatcher size %d, expected %d", d.len(), pads0(pads, offset))
	}

	code := d.out
	for i, e := range entries {
		body, err := e.body.link(pads[i] + 2)
		if err != nil {
			return nil, err
		}
		code = append(code, byte(vm.JUMPDEST), byte(vm.POP))
		code = append(code, body...)
		code = append(code, byte(vm.STOP))
	}
	log.Trace("Emitted dispatcher", "functions", len(entries), "size", len(code))
	return code, nil
}

// pads0 is the offset of the first landing pad, which is where the
// dispatcher ends.
func pads0(pads []int, end int) int {
	if len(pads) == 0 {
		return end
	}
	return pads[0]
}

func addressBytes(addr, width int) []byte {
	b := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		b[i] = byte(addr)
		addr >>= 8
	}
	return b
}
