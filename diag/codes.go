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

package diag

// Code is a numeric diagnostic code. The values mirror the error identifiers
// of solc so that tooling can match on them.
// Code 是数字诊断代码，其值与 solc 的错误标识符保持一致。
type Code int

const (
	CodeDuplicateSymbol     Code = 2333 // identifier already declared
	CodeDuplicateOverload   Code = 1686 // function with same name and parameter types defined twice
	CodeUndeclared          Code = 7576 // undeclared identifier
	CodeNotLValue           Code = 4247 // expression has to be an lvalue
	CodeBinaryOperator      Code = 2271 // binary operator not compatible with types
	CodeUnaryOperator       Code = 4907 // unary operator cannot be applied to type
	CodeUnaryMinus          Code = 9767 // built-in unary minus cannot be applied to type
	CodeNotCallable         Code = 5704 // type is not callable
	CodeArgumentCount       Code = 6160 // wrong argument count for function call
	CodeMemberNotFound      Code = 9582 // member not found or not visible
	CodeDeclarationConvert  Code = 9574 // initializer not implicitly convertible to declared type
	CodeImplicitConvert     Code = 7407 // not implicitly convertible to expected type
	CodeExplicitConvert     Code = 9640 // explicit type conversion not allowed
	CodeConditionalMismatch Code = 1080 // true and false expressions have different types
	CodeExponentWidth       Code = 3149 // result type of exponentiation is the base type (warning)
	CodeAmbiguousOverload   Code = 4487 // no unique declaration found after argument-dependent lookup
	CodeNoMatchingOverload  Code = 9322 // no matching declaration found after argument-dependent lookup
	CodeCompoundAssignment  Code = 7366 // compound assignment operator not compatible with types
	CodeReturnConvert       Code = 6359 // return argument type not implicitly convertible
	CodeReturnArity         Code = 8863 // different number of arguments in return statement
	CodeNotAType            Code = 5172 // name has to refer to a user-defined type
	CodeTupleComponents     Code = 7364 // different number of components in tuple declaration
)
