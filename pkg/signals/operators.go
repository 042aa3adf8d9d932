package signals

import "cmp"

// Number constrains the types the arithmetic lifts operate on.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Integer constrains the shift and bitwise lifts.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Add lifts elementwise addition.
func Add[T Number](a, b ReadSignal[T]) Signal[T] {
	return LazyApply2(func(x, y T) T { return x + y }, a, b)
}

// AddC adds a constant to a signal.
func AddC[T Number](a ReadSignal[T], v T) Signal[T] { return Add(a, Value(v)) }

// Sub lifts elementwise subtraction.
func Sub[T Number](a, b ReadSignal[T]) Signal[T] {
	return LazyApply2(func(x, y T) T { return x - y }, a, b)
}

// SubC subtracts a constant from a signal.
func SubC[T Number](a ReadSignal[T], v T) Signal[T] { return Sub(a, Value(v)) }

// Mul lifts elementwise multiplication.
func Mul[T Number](a, b ReadSignal[T]) Signal[T] {
	return LazyApply2(func(x, y T) T { return x * y }, a, b)
}

// MulC multiplies a signal by a constant.
func MulC[T Number](a ReadSignal[T], v T) Signal[T] { return Mul(a, Value(v)) }

// Div lifts elementwise division.
func Div[T Number](a, b ReadSignal[T]) Signal[T] {
	return LazyApply2(func(x, y T) T { return x / y }, a, b)
}

// DivC divides a signal by a constant.
func DivC[T Number](a ReadSignal[T], v T) Signal[T] { return Div(a, Value(v)) }

// Mod lifts elementwise remainder.
func Mod[T Integer](a, b ReadSignal[T]) Signal[T] {
	return LazyApply2(func(x, y T) T { return x % y }, a, b)
}

// Neg negates a signal.
func Neg[T Number](a ReadSignal[T]) Signal[T] {
	return LazyApply1(func(x T) T { return -x }, a)
}

// Eq lifts equality.
func Eq[T comparable](a, b ReadSignal[T]) Signal[bool] {
	return LazyApply2(func(x, y T) bool { return x == y }, a, b)
}

// EqC compares a signal against a constant.
func EqC[T cmp.Ordered](a ReadSignal[T], v T) Signal[bool] { return Eq[T](a, Value(v)) }

// Ne lifts inequality.
func Ne[T comparable](a, b ReadSignal[T]) Signal[bool] {
	return LazyApply2(func(x, y T) bool { return x != y }, a, b)
}

// Lt lifts less-than.
func Lt[T cmp.Ordered](a, b ReadSignal[T]) Signal[bool] {
	return LazyApply2(func(x, y T) bool { return x < y }, a, b)
}

// LtC compares a signal against a constant.
func LtC[T cmp.Ordered](a ReadSignal[T], v T) Signal[bool] { return Lt(a, Value(v)) }

// Le lifts less-or-equal.
func Le[T cmp.Ordered](a, b ReadSignal[T]) Signal[bool] {
	return LazyApply2(func(x, y T) bool { return x <= y }, a, b)
}

// Gt lifts greater-than.
func Gt[T cmp.Ordered](a, b ReadSignal[T]) Signal[bool] {
	return LazyApply2(func(x, y T) bool { return x > y }, a, b)
}

// GtC compares a signal against a constant.
func GtC[T cmp.Ordered](a ReadSignal[T], v T) Signal[bool] { return Gt(a, Value(v)) }

// Ge lifts greater-or-equal.
func Ge[T cmp.Ordered](a, b ReadSignal[T]) Signal[bool] {
	return LazyApply2(func(x, y T) bool { return x >= y }, a, b)
}

// Shl lifts left shift.
func Shl[T Integer](a, b ReadSignal[T]) Signal[T] {
	return LazyApply2(func(x, y T) T { return x << y }, a, b)
}

// Shr lifts right shift.
func Shr[T Integer](a, b ReadSignal[T]) Signal[T] {
	return LazyApply2(func(x, y T) T { return x >> y }, a, b)
}

// BitAnd lifts bitwise and.
func BitAnd[T Integer](a, b ReadSignal[T]) Signal[T] {
	return LazyApply2(func(x, y T) T { return x & y }, a, b)
}

// BitOr lifts bitwise or.
func BitOr[T Integer](a, b ReadSignal[T]) Signal[T] {
	return LazyApply2(func(x, y T) T { return x | y }, a, b)
}

// BitXor lifts bitwise xor.
func BitXor[T Integer](a, b ReadSignal[T]) Signal[T] {
	return LazyApply2(func(x, y T) T { return x ^ y }, a, b)
}
