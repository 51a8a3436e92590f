// SPDX-License-Identifier: MPL-2.0

package modules

import (
	"fmt"
	"math"

	lua "github.com/yuin/gopher-lua"
)

// BitModuleName is the global name of the bit operations module.
const BitModuleName = "bit"

// Bit provides 32-bit integer operations with LuaJIT's bit library semantics:
// every argument is normalized with tobit and every result is a signed
// 32-bit number.
type Bit struct{}

// NewBit creates the bit module.
func NewBit() *Bit { return &Bit{} }

// Name implements Module.
func (m *Bit) Name() string { return BitModuleName }

// Functions implements Module.
func (m *Bit) Functions() []Function {
	return []Function{
		{Name: "tobit", Fn: bitUnary(func(x int32) int32 { return x })},
		{Name: "bnot", Fn: bitUnary(func(x int32) int32 { return ^x })},
		{Name: "band", Fn: bitFold(func(a, b int32) int32 { return a & b })},
		{Name: "bor", Fn: bitFold(func(a, b int32) int32 { return a | b })},
		{Name: "bxor", Fn: bitFold(func(a, b int32) int32 { return a ^ b })},
		{Name: "lshift", Fn: bitShift(func(x int32, n uint) int32 { return int32(uint32(x) << n) })},
		{Name: "rshift", Fn: bitShift(func(x int32, n uint) int32 { return int32(uint32(x) >> n) })},
		{Name: "arshift", Fn: bitShift(func(x int32, n uint) int32 { return x >> n })},
		{Name: "tohex", Fn: bitToHex},
	}
}

// Fields implements Module.
func (m *Bit) Fields() []Field { return nil }

// ToBit normalizes a Lua number to a signed 32-bit integer: it rounds to the
// nearest integer (ties to even) and wraps modulo 2^32.
func ToBit(n float64) int32 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	r := math.Mod(math.RoundToEven(n), 1<<32)
	if r < 0 {
		r += 1 << 32
	}
	return int32(uint32(r))
}

func checkBit(L *lua.LState, n int) int32 {
	return ToBit(float64(L.CheckNumber(n)))
}

func bitUnary(op func(int32) int32) lua.LGFunction {
	return func(L *lua.LState) int {
		L.Push(lua.LNumber(op(checkBit(L, 1))))
		return 1
	}
}

func bitFold(op func(a, b int32) int32) lua.LGFunction {
	return func(L *lua.LState) int {
		acc := checkBit(L, 1)
		for i := 2; i <= L.GetTop(); i++ {
			acc = op(acc, checkBit(L, i))
		}
		L.Push(lua.LNumber(acc))
		return 1
	}
}

func bitShift(op func(x int32, n uint) int32) lua.LGFunction {
	return func(L *lua.LState) int {
		x := checkBit(L, 1)
		n := uint(uint32(checkBit(L, 2)) & 31)
		L.Push(lua.LNumber(op(x, n)))
		return 1
	}
}

// bitToHex formats x with n hex digits (default 8). A negative n selects
// upper-case digits.
func bitToHex(L *lua.LState) int {
	x := uint32(checkBit(L, 1))
	n := int32(8)
	if L.GetTop() >= 2 && L.Get(2) != lua.LNil {
		n = checkBit(L, 2)
	}
	format := "%0*x"
	if n < 0 {
		format = "%0*X"
		n = -n
	}
	if n > 8 || n < 0 {
		n = 8
	}
	if n < 8 {
		x &= (1 << (4 * uint(n))) - 1
	}
	L.Push(lua.LString(fmt.Sprintf(format, int(n), x)))
	return 1
}
