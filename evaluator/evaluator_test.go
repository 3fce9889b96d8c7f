package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-lang/lumen/object"
	"github.com/lumen-lang/lumen/parser"
)

func testEval(t *testing.T, input string) object.Object {
	t.Helper()
	program, errs := parser.Parse(input)
	require.Empty(t, errs, "parser errors: %v", errs)
	env := object.NewEnvironment()
	return Eval(program, env)
}

func assertInteger(t *testing.T, obj object.Object, expected int64) {
	t.Helper()
	result, ok := obj.(*object.Integer)
	require.True(t, ok, "expected *object.Integer, got %T (%+v)", obj, obj)
	assert.Equal(t, expected, result.Value)
}

func assertBoolean(t *testing.T, obj object.Object, expected bool) {
	t.Helper()
	result, ok := obj.(*object.Boolean)
	require.True(t, ok, "expected *object.Boolean, got %T (%+v)", obj, obj)
	assert.Equal(t, expected, result.Value)
}

// TestIntegerArithmetic pins property 4: evaluating any arithmetic
// expression over integer literals yields the same result as evaluating it
// with Go's native int64 arithmetic, division truncating toward zero.
func TestIntegerArithmetic(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"5", 5},
		{"10", 10},
		{"-5", -5},
		{"-10", -10},
		{"5 + 5 + 5 + 5 - 10", 10},
		{"2 * 2 * 2 * 2 * 2", 32},
		{"-50 + 100 + -50", 0},
		{"5 * 2 + 10", 20},
		{"5 + 2 * 10", 25},
		{"20 + 2 * -10", 0},
		{"50 / 2 * 2 + 10", 60},
		{"2 * (5 + 10)", 30},
		{"3 * 3 * 3 + 10", 37},
		{"3 * (3 * 3) + 10", 37},
		{"(5 + 10 * 2 + 15 / 3) * 2 + -10", 50},
		{"7 / 2", 3},
		{"-7 / 2", -3},
	}

	for _, tt := range tests {
		assertInteger(t, testEval(t, tt.input), tt.expected)
	}
}

func TestBooleanExpression(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"true", true},
		{"false", false},
		{"1 < 2", true},
		{"1 > 2", false},
		{"1 < 1", false},
		{"1 > 1", false},
		{"1 == 1", true},
		{"1 != 1", false},
		{"1 == 2", false},
		{"1 != 2", true},
		{"true == true", true},
		{"false == false", true},
		{"true == false", false},
		{"(1 < 2) == true", true},
		{"(1 < 2) == false", false},
	}

	for _, tt := range tests {
		assertBoolean(t, testEval(t, tt.input), tt.expected)
	}
}

func TestBangOperator(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"!true", false},
		{"!false", true},
		{"!5", false},
		{"!!true", true},
		{"!!false", false},
		{"!!5", true},
		{"!0", true}, // the documented asymmetry: 0 is falsy under `!`
	}

	for _, tt := range tests {
		assertBoolean(t, testEval(t, tt.input), tt.expected)
	}
}

// TestIfElseExpressions covers scenario (c) from the end-to-end set and the
// truthiness asymmetry: 0 is truthy for `if` even though `!0` is true.
func TestIfElseExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected interface{}
	}{
		{"if (true) { 10 }", int64(10)},
		{"if (false) { 10 }", nil},
		{"if (1) { 10 }", int64(10)},
		{"if (0) { 10 }", int64(10)}, // 0 is truthy for `if`, unlike for `!`
		{"if (1 < 2) { 10 }", int64(10)},
		{"if (1 > 2) { 10 }", nil},
		{"if (1 > 2) { 10 } else { 20 }", int64(20)},
		{"if (1 < 2) { 10 } else { 20 }", int64(10)},
	}

	for _, tt := range tests {
		result := testEval(t, tt.input)
		if want, ok := tt.expected.(int64); ok {
			assertInteger(t, result, want)
		} else {
			assert.Same(t, NULL, result)
		}
	}
}

// TestReturnStatements covers scenario (d): return stops evaluation of
// everything after it, unwinding through nested blocks.
func TestReturnStatements(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"return 10;", 10},
		{"return 10; 9;", 10},
		{"return 2 * 5; 9;", 10},
		{"9; return 2 * 5; 9;", 10},
		{
			`
if (10 > 1) {
  if (10 > 1) {
    return 10;
  }
  return 1;
}
`,
			10,
		},
	}

	for _, tt := range tests {
		assertInteger(t, testEval(t, tt.input), tt.expected)
	}
}

// TestErrorHandling covers scenario (e) and property 5: the first error
// encountered, evaluated left to right, short-circuits everything after it.
func TestErrorHandling(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"5 + true;", "type mismatch: INTEGER + BOOLEAN"},
		{"5 + true; 5;", "type mismatch: INTEGER + BOOLEAN"},
		{"-true;", "unknown operator: -BOOLEAN"},
		{"true + false;", "unknown operator: BOOLEAN + BOOLEAN"},
		{"5; true + false; 5;", "unknown operator: BOOLEAN + BOOLEAN"},
		{"if (10 > 1) { true + false; }", "unknown operator: BOOLEAN + BOOLEAN"},
		{
			`
if (10 > 1) {
  if (10 > 1) {
    return true + false;
  }
  return 1;
}
`,
			"unknown operator: BOOLEAN + BOOLEAN",
		},
		{"foobar", "identifier not found: foobar"},
		{"10 / 0;", "division by zero"},
		{"1 + (2 / 0);", "division by zero"},
		// Mixed types must error even for == / !=, ahead of any same-type check.
		{"5 == true;", "type mismatch: INTEGER == BOOLEAN"},
		{"5 != true;", "type mismatch: INTEGER != BOOLEAN"},
		// Same type but unhandled by any rule (functions have no == / != or
		// other infix operator defined) still errors, rather than falling
		// back to Go pointer comparison.
		{"fn(){} == fn(){};", "unknown operator: FUNCTION == FUNCTION"},
	}

	for _, tt := range tests {
		result := testEval(t, tt.input)
		errObj, ok := result.(*object.Error)
		require.True(t, ok, "expected *object.Error for %q, got %T (%+v)", tt.input, result, result)
		assert.Equal(t, tt.expected, errObj.Message)
	}
}

// TestLetStatements covers scenario (a): binding and subsequently reading a
// name.
func TestLetStatements(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"let a = 5; a;", 5},
		{"let a = 5 * 5; a;", 25},
		{"let a = 5; let b = a; b;", 5},
		{"let a = 5; let b = a; let c = a + b + 5; c;", 15},
	}

	for _, tt := range tests {
		assertInteger(t, testEval(t, tt.input), tt.expected)
	}
}

// TestFunctionApplication covers scenario (f): calling a function with
// arguments bound positionally.
func TestFunctionApplication(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"let identity = fn(x) { x; }; identity(5);", 5},
		{"let identity = fn(x) { return x; }; identity(5);", 5},
		{"let double = fn(x) { x * 2; }; double(5);", 10},
		{"let add = fn(x, y) { x + y; }; add(5, 5);", 10},
		{"let add = fn(x, y) { x + y; }; add(5 + 5, add(5, 5));", 20},
		{"fn(x) { x; }(5)", 5},
	}

	for _, tt := range tests {
		assertInteger(t, testEval(t, tt.input), tt.expected)
	}
}

// TestClosures covers scenario (g) and property 6: a function returned
// from another function keeps its own captured environment, independent of
// other closures created the same way.
func TestClosures(t *testing.T) {
	input := `
let newAdder = fn(x) {
  fn(y) { x + y; };
};

let addTwo = newAdder(2);
let addThree = newAdder(3);
addTwo(2) + addThree(3);
`
	assertInteger(t, testEval(t, input), 10)
}

func TestClosures_IndependentCaptures(t *testing.T) {
	input := `
let newAdder = fn(x) { fn(y) { x + y; }; };
let addTwo = newAdder(2);
let addThree = newAdder(3);
addTwo(10);
`
	assertInteger(t, testEval(t, input), 12)

	input2 := `
let newAdder = fn(x) { fn(y) { x + y; }; };
let addThree = newAdder(3);
addThree(10);
`
	assertInteger(t, testEval(t, input2), 13)
}

func TestWrongNumberOfArguments(t *testing.T) {
	result := testEval(t, "let add = fn(x, y) { x + y; }; add(1);")
	errObj, ok := result.(*object.Error)
	require.True(t, ok)
	assert.Equal(t, "wrong number of arguments: expected 2, got 1", errObj.Message)
}
