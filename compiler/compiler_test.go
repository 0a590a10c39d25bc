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

package compiler

import (
	"errors"
	"math/big"
	"testing"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/core/vm/runtime"
	"github.com/stretchr/testify/require"

	"github.com/sunyihoo/go-solidity/codegen"
	"github.com/sunyihoo/go-solidity/diag"
)

// deployed compiles src and returns the contract with its parsed interface.
func deployed(t *testing.T, src string) (*Contract, gethabi.ABI) {
	t.Helper()
	c, err := CompileSource(src, DefaultConfig)
	require.NoError(t, err)
	parsed, err := c.Interface().Parse()
	require.NoError(t, err)
	return c, parsed
}

// call packs the arguments, executes the code and unpacks the results.
func call(t *testing.T, code []byte, parsed gethabi.ABI, cfg *runtime.Config, method string, args ...interface{}) ([]interface{}, error) {
	t.Helper()
	input, err := parsed.Pack(method, args...)
	require.NoError(t, err)
	ret, _, err := runtime.Execute(code, input, cfg)
	if err != nil {
		return nil, err
	}
	return parsed.Unpack(method, ret)
}

func word(v uint64) []byte {
	return common.LeftPadBytes(new(big.Int).SetUint64(v).Bytes(), 32)
}

func TestReturnConstant(t *testing.T) {
	c, parsed := deployed(t, "contract C { function run() external returns (uint256) { return 10; } }")
	require.Equal(t, "C", c.Name)

	ret, _, err := runtime.Execute(c.Code, parsed.Methods["run"].ID, nil)
	require.NoError(t, err)
	require.Equal(t, word(10), ret)
}

func TestReturnArgument(t *testing.T) {
	c, parsed := deployed(t, "contract C { function run(uint256 a) external returns (uint256) { return a; } }")

	out, err := call(t, c.Code, parsed, nil, "run", big.NewInt(0xa))
	require.NoError(t, err)
	require.Equal(t, big.NewInt(10), out[0])
}

func TestDispatch(t *testing.T) {
	c, parsed := deployed(t, `contract C {
	function run1() external returns (uint256) { return 1; }
	function run2() external returns (uint256) { return 2; }
}`)
	for method, want := range map[string]int64{"run1": 1, "run2": 2} {
		out, err := call(t, c.Code, parsed, nil, method)
		require.NoError(t, err, method)
		require.Equal(t, big.NewInt(want), out[0], method)
	}
}

func TestUnknownSelector(t *testing.T) {
	c, _ := deployed(t, "contract C { function run() external returns (uint256) { return 10; } }")

	_, _, err := runtime.Execute(c.Code, []byte{0xde, 0xad, 0xbe, 0xef}, nil)
	var invalid *vm.ErrInvalidOpCode
	require.ErrorAs(t, err, &invalid)
}

func TestCrossContractCall(t *testing.T) {
	identity, _ := deployed(t, `contract Identity {
	function identity(uint256 x) external pure returns (uint256) { return x; }
}`)
	caller, parsed := deployed(t, `contract Caller {
	function run() external returns (uint256) {
		return Identity(address(uint160(1234))).identity(10);
	}
	function forward(Identity target, uint256 x) external returns (uint256) {
		return target.identity(x);
	}
}
contract Identity {
	function identity(uint256 x) external pure returns (uint256) {}
}`)

	statedb, err := state.New(types.EmptyRootHash, state.NewDatabaseForTesting())
	require.NoError(t, err)
	target := common.BigToAddress(big.NewInt(1234))
	statedb.CreateAccount(target)
	statedb.SetCode(target, identity.Code)
	cfg := &runtime.Config{State: statedb}

	out, err := call(t, caller.Code, parsed, cfg, "run")
	require.NoError(t, err)
	require.Equal(t, big.NewInt(10), out[0])

	out, err = call(t, caller.Code, parsed, cfg, "forward", target, big.NewInt(42))
	require.NoError(t, err)
	require.Equal(t, big.NewInt(42), out[0])
}

func TestFailedCallReverts(t *testing.T) {
	c, parsed := deployed(t, `contract Caller {
	function run(Callee target) external returns (uint256) { return target.get(); }
}
contract Callee {
	function get() external returns (uint256) {}
}`)
	statedb, err := state.New(types.EmptyRootHash, state.NewDatabaseForTesting())
	require.NoError(t, err)
	target := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	statedb.CreateAccount(target)
	statedb.SetCode(target, []byte{byte(vm.PUSH1), 0x00, byte(vm.DUP1), byte(vm.REVERT)})

	_, err = call(t, c.Code, parsed, &runtime.Config{State: statedb}, "run", target)
	require.ErrorIs(t, err, vm.ErrExecutionReverted)
}

func TestControlFlow(t *testing.T) {
	c, parsed := deployed(t, `contract C {
	function sum(uint256 n) external pure returns (uint256 s) {
		for (uint256 i = 1; i <= n; i++) {
			s += i;
		}
	}
	function skip(uint256 n) external pure returns (uint256 r) {
		uint256 i = 0;
		while (i < n) {
			i++;
			if (i % 2 == 0) continue;
			r = r + i;
		}
	}
	function until(uint256 n) external pure returns (uint256 r) {
		while (true) {
			if (r >= n) break;
			r = r + 3;
		}
	}
	function countdown(uint256 n) external pure returns (uint256 steps) {
		do {
			steps++;
			n--;
		} while (n > 0);
	}
	function pick(bool c) external pure returns (uint8) {
		return c ? 1 : 2;
	}
	function both(bool a, bool b) external pure returns (bool) {
		return a && b || !a && !b;
	}
}`)
	tests := []struct {
		method string
		args   []interface{}
		want   interface{}
	}{
		{"sum", []interface{}{big.NewInt(4)}, big.NewInt(10)},
		{"sum", []interface{}{big.NewInt(0)}, big.NewInt(0)},
		{"skip", []interface{}{big.NewInt(6)}, big.NewInt(9)},
		{"until", []interface{}{big.NewInt(10)}, big.NewInt(12)},
		{"countdown", []interface{}{big.NewInt(5)}, big.NewInt(5)},
		{"pick", []interface{}{true}, uint8(1)},
		{"pick", []interface{}{false}, uint8(2)},
		{"both", []interface{}{true, true}, true},
		{"both", []interface{}{false, false}, true},
		{"both", []interface{}{true, false}, false},
	}
	for _, tt := range tests {
		out, err := call(t, c.Code, parsed, nil, tt.method, tt.args...)
		require.NoError(t, err, tt.method)
		require.Equal(t, tt.want, out[0], "%s%v", tt.method, tt.args)
	}
}

func TestArithmetic(t *testing.T) {
	c, parsed := deployed(t, `contract C {
	function wrap() external pure returns (uint8) { uint8 a = 255; unchecked { return a + 1; } }
	function neg(int256 a) external pure returns (int256) { return -a; }
	function div(int256 a, int256 b) external pure returns (int256) { return a / b; }
	function pow(uint256 a, uint256 b) external pure returns (uint256) { return a ** b; }
	function shift(uint256 a) external pure returns (uint256) { return a << 4 >> 2; }
	function mix(uint256 a, uint256 b) external pure returns (uint256) { return (a & b) | (a ^ b); }
	function swap(uint256 a, uint256 b) external pure returns (uint256, uint256) { (a, b) = (b, a); return (a, b); }
}`)
	tests := []struct {
		method string
		args   []interface{}
		want   []interface{}
	}{
		{"wrap", nil, []interface{}{uint8(0)}},
		{"neg", []interface{}{big.NewInt(7)}, []interface{}{big.NewInt(-7)}},
		{"div", []interface{}{big.NewInt(-9), big.NewInt(2)}, []interface{}{big.NewInt(-4)}},
		{"pow", []interface{}{big.NewInt(3), big.NewInt(4)}, []interface{}{big.NewInt(81)}},
		{"shift", []interface{}{big.NewInt(1)}, []interface{}{big.NewInt(4)}},
		{"mix", []interface{}{big.NewInt(6), big.NewInt(3)}, []interface{}{big.NewInt(7)}},
		{"swap", []interface{}{big.NewInt(1), big.NewInt(2)}, []interface{}{big.NewInt(2), big.NewInt(1)}},
	}
	for _, tt := range tests {
		out, err := call(t, c.Code, parsed, nil, tt.method, tt.args...)
		require.NoError(t, err, tt.method)
		require.Equal(t, tt.want, out, tt.method)
	}
}

// panicData is the revert data of Panic(code).
func panicData(code uint64) []byte {
	return append([]byte{0x4e, 0x48, 0x7b, 0x71}, word(code)...)
}

func TestCheckedArithmetic(t *testing.T) {
	c, parsed := deployed(t, `contract C {
	function lit() external pure returns (uint256 x) { x = 200 + 100; }
	function quintillion() external pure returns (uint256) { return 10 ** 18; }
	function least() external pure returns (int8) { int8 x = -128; return x; }
	function inc(uint8 a) external pure returns (uint8) { return a + 1; }
	function dec(uint256 a) external pure returns (uint256) { return a - 1; }
	function mul(uint256 a, uint256 b) external pure returns (uint256) { return a * b; }
	function smul(int256 a, int256 b) external pure returns (int256) { return a * b; }
	function sdiv(int256 a, int256 b) external pure returns (int256) { return a / b; }
	function flip(int8 a) external pure returns (int8) { return -a; }
	function pow(uint8 a, uint8 b) external pure returns (uint8) { return a ** b; }
	function spow(int8 a, uint8 b) external pure returns (int8) { return a ** b; }
	function bump(uint8 a) external pure returns (uint8) { a += 200; return a; }
	function step(int16 a) external pure returns (int16) { a--; return a; }
	function wrap(uint8 a) external pure returns (uint8) { unchecked { return a + 1; } }
	function wrapPow(uint8 a, uint8 b) external pure returns (uint8) { unchecked { return a ** b; } }
	function div(uint256 a, uint256 b) external pure returns (uint256) { return a / b; }
	function mod(uint256 a, uint256 b) external pure returns (uint256) { unchecked { return a % b; } }
}`)
	two := func(e uint) *big.Int { return new(big.Int).Lsh(big.NewInt(1), e) }
	minInt := new(big.Int).Neg(two(255))

	ok := []struct {
		method string
		args   []interface{}
		want   interface{}
	}{
		{"lit", nil, big.NewInt(300)},
		{"quintillion", nil, new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)},
		{"least", nil, int8(-128)},
		{"inc", []interface{}{uint8(254)}, uint8(255)},
		{"dec", []interface{}{big.NewInt(1)}, big.NewInt(0)},
		{"mul", []interface{}{two(128), two(127)}, two(255)},
		{"smul", []interface{}{big.NewInt(-1), two(254)}, new(big.Int).Neg(two(254))},
		{"sdiv", []interface{}{big.NewInt(-9), big.NewInt(2)}, big.NewInt(-4)},
		{"flip", []interface{}{int8(5)}, int8(-5)},
		{"pow", []interface{}{uint8(2), uint8(7)}, uint8(128)},
		{"pow", []interface{}{uint8(3), uint8(5)}, uint8(243)},
		{"pow", []interface{}{uint8(0), uint8(0)}, uint8(1)},
		{"pow", []interface{}{uint8(1), uint8(255)}, uint8(1)},
		{"spow", []interface{}{int8(-2), uint8(7)}, int8(-128)},
		{"bump", []interface{}{uint8(55)}, uint8(255)},
		{"step", []interface{}{int16(-32767)}, int16(-32768)},
		{"wrap", []interface{}{uint8(255)}, uint8(0)},
		{"wrapPow", []interface{}{uint8(2), uint8(8)}, uint8(0)},
		{"div", []interface{}{big.NewInt(7), big.NewInt(2)}, big.NewInt(3)},
		{"mod", []interface{}{big.NewInt(7), big.NewInt(4)}, big.NewInt(3)},
	}
	for _, tt := range ok {
		out, err := call(t, c.Code, parsed, nil, tt.method, tt.args...)
		require.NoError(t, err, "%s%v", tt.method, tt.args)
		require.Equal(t, tt.want, out[0], "%s%v", tt.method, tt.args)
	}

	panics := []struct {
		method string
		args   []interface{}
		code   uint64
	}{
		{"inc", []interface{}{uint8(255)}, 0x11},
		{"dec", []interface{}{big.NewInt(0)}, 0x11},
		{"mul", []interface{}{two(128), two(128)}, 0x11},
		{"smul", []interface{}{big.NewInt(-1), minInt}, 0x11},
		{"smul", []interface{}{two(128), two(127)}, 0x11},
		{"sdiv", []interface{}{minInt, big.NewInt(-1)}, 0x11},
		{"flip", []interface{}{int8(-128)}, 0x11},
		{"pow", []interface{}{uint8(2), uint8(8)}, 0x11},
		{"pow", []interface{}{uint8(3), uint8(6)}, 0x11},
		{"spow", []interface{}{int8(2), uint8(7)}, 0x11},
		{"bump", []interface{}{uint8(56)}, 0x11},
		{"step", []interface{}{int16(-32768)}, 0x11},
		{"div", []interface{}{big.NewInt(1), big.NewInt(0)}, 0x12},
		{"mod", []interface{}{big.NewInt(1), big.NewInt(0)}, 0x12},
	}
	for _, tt := range panics {
		input, err := parsed.Pack(tt.method, tt.args...)
		require.NoError(t, err)
		ret, _, err := runtime.Execute(c.Code, input, nil)
		require.ErrorIs(t, err, vm.ErrExecutionReverted, "%s%v", tt.method, tt.args)
		require.Equal(t, panicData(tt.code), ret, "%s%v", tt.method, tt.args)
	}
}

func TestEmitAndRevert(t *testing.T) {
	c, parsed := deployed(t, `contract C {
	event Ping(uint256 indexed a, uint256 b);
	error Failed(uint256 code);
	function ping() external { emit Ping(1, 2); }
	function fail(uint256 x) external { revert Failed(x); }
}`)
	input, err := parsed.Pack("ping")
	require.NoError(t, err)
	_, statedb, err := runtime.Execute(c.Code, input, nil)
	require.NoError(t, err)
	logs := statedb.Logs()
	require.Len(t, logs, 1)
	require.Equal(t, []common.Hash{parsed.Events["Ping"].ID, common.BigToHash(big.NewInt(1))}, logs[0].Topics)
	require.Equal(t, word(2), logs[0].Data)

	input, err = parsed.Pack("fail", big.NewInt(7))
	require.NoError(t, err)
	ret, _, err := runtime.Execute(c.Code, input, nil)
	require.ErrorIs(t, err, vm.ErrExecutionReverted)
	id := parsed.Errors["Failed"].ID
	require.Equal(t, id[:4], ret[:4])
	require.Equal(t, word(7), ret[4:])
}

func TestEnvironment(t *testing.T) {
	c, parsed := deployed(t, `contract C {
	function sender() external view returns (address) { return msg.sender; }
	function number() external view returns (uint256) { return block.number; }
	function sig() external pure returns (bytes4) { return msg.sig; }
}`)
	origin := common.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	cfg := &runtime.Config{Origin: origin, BlockNumber: big.NewInt(99)}

	out, err := call(t, c.Code, parsed, cfg, "sender")
	require.NoError(t, err)
	require.Equal(t, origin, out[0])

	out, err = call(t, c.Code, parsed, &runtime.Config{BlockNumber: big.NewInt(99)}, "number")
	require.NoError(t, err)
	require.Equal(t, big.NewInt(99), out[0])

	out, err = call(t, c.Code, parsed, nil, "sig")
	require.NoError(t, err)
	var want [4]byte
	copy(want[:], parsed.Methods["sig"].ID)
	require.Equal(t, want, out[0])
}

func TestRunKeepsStages(t *testing.T) {
	res, err := Run("contract C { function f(uint8 a) external pure returns (uint8) { return a + 1; } }", DefaultConfig)
	require.NoError(t, err)
	require.NotNil(t, res.Program)
	require.NotZero(t, res.Annotations.Len())
	require.Equal(t, "C", res.Contract.Name)
	require.Equal(t, "0x", res.Contract.Hex()[:2])
}

func TestWarnings(t *testing.T) {
	c, err := CompileSource("contract C { function f(uint8 a, uint256 b) external pure returns (uint8) { return a ** b; } }", DefaultConfig)
	require.NoError(t, err)
	require.Len(t, c.Warnings, 1)
	var terr *diag.TypeError
	require.ErrorAs(t, c.Warnings[0], &terr)
	require.Equal(t, diag.CodeExponentWidth, terr.Code)
}

func TestErrors(t *testing.T) {
	_, err := CompileSource("function f() {}", DefaultConfig)
	require.ErrorIs(t, err, ErrNoContract)

	_, err = CompileSource("contract C { function f() external { uint256 a; string b; a + b; } }", DefaultConfig)
	var terr *diag.TypeError
	require.ErrorAs(t, err, &terr)
	require.Equal(t, diag.CodeBinaryOperator, terr.Code)

	_, err = CompileSource("contract C { function f( }", DefaultConfig)
	var perr *diag.ParseError
	require.ErrorAs(t, err, &perr)

	_, err = CompileSource("contract C { # }", DefaultConfig)
	var lerr *diag.LexError
	require.ErrorAs(t, err, &lerr)

	cfg := Config{Codegen: codegen.Config{JumpAddressWidth: 1, FreeMemoryStart: 0x80}}
	src := "contract C {"
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m", "n", "o", "p", "q", "r", "s", "t"} {
		src += " function " + name + "() external pure returns (uint256) { return 1; }"
	}
	src += " }"
	_, err = CompileSource(src, cfg)
	require.True(t, errors.Is(err, codegen.ErrCodeTooLarge), "have %v", err)
}
