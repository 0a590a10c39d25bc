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

package codegen

import (
	"fmt"

	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/holiman/uint256"

	"github.com/sunyihoo/go-solidity/diag"
)

// label names a jump destination inside a program.
type label int

type fixup struct {
	at     int // offset of the first immediate byte
	target label
}

// program is a relocatable piece of bytecode. Jumps are emitted with a fixed
// width immediate and patched once the final offset of the program is known.
// program 是一段可重定位的字节码。跳转使用固定宽度的立即数发出，在程序的最终偏移量确定后再回填。
type program struct {
	width  int // bytes of a jump address
	out    []byte
	labels []int // label -> offset in out, -1 until marked
	fixups []fixup
}

func newProgram(width int) *program {
	return &program{width: width}
}

func (p *program) len() int { return len(p.out) }

func (p *program) op(ops ...vm.OpCode) {
	for _, op := range ops {
		p.out = append(p.out, byte(op))
	}
}

// push emits the shortest PUSH of v. Zero is pushed as PUSH1 0.
func (p *program) push(v *uint256.Int) {
	b := v.Bytes()
	if len(b) == 0 {
		b = []byte{0}
	}
	p.out = append(p.out, byte(vm.PUSH1)-1+byte(len(b)))
	p.out = append(p.out, b...)
}

func (p *program) pushUint(v uint64) {
	p.push(uint256.NewInt(v))
}

// pushBytes emits a PUSH of exactly len(b) bytes.
func (p *program) pushBytes(b []byte) {
	p.out = append(p.out, byte(vm.PUSH1)-1+byte(len(b)))
	p.out = append(p.out, b...)
}

func (p *program) newLabel() label {
	p.labels = append(p.labels, -1)
	return label(len(p.labels) - 1)
}

// mark places the label at the current offset and emits its JUMPDEST.
func (p *program) mark(l label) {
	p.labels[l] = len(p.out)
	p.op(vm.JUMPDEST)
}

// pushLabel emits a PUSH of the label address, patched at link time.
func (p *program) pushLabel(l label) {
	p.out = append(p.out, byte(vm.PUSH1)-1+byte(p.width))
	p.fixups = append(p.fixups, fixup{at: len(p.out), target: l})
	p.out = append(p.out, make([]byte, p.width)...)
}

func (p *program) jump(l label) {
	p.pushLabel(l)
	p.op(vm.JUMP)
}

func (p *program) jumpIf(l label) {
	p.pushLabel(l)
	p.op(vm.JUMPI)
}

// link resolves all jump addresses as if the program started at base and
// returns the final bytes.
// link 假设程序从 base 处开始，解析所有跳转地址并返回最终字节。
func (p *program) link(base int) ([]byte, error) {
	limit := uint64(1) << (8 * uint(p.width))
	for _, f := range p.fixups {
		at := p.labels[f.target]
		if at < 0 {
			return nil, diag.Invariant("unplaced label %d", f.target)
		}
		addr := uint64(base + at)
		if addr >= limit {
			return nil, fmt.Errorf("%w: destination %#x needs more than %d bytes", ErrCodeTooLarge, addr, p.width)
		}
		for i := p.width - 1; i >= 0; i-- {
			p.out[f.at+i] = byte(addr)
			addr >>= 8
		}
	}
	return p.out, nil
}
