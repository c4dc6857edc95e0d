package entity

import (
	"bytes"
	"encoding/json"
)

// Optional は「値が存在するか」を明示的に保持するラッパーです。
// 0 と「未提供」を区別するために使用します。
type Optional[T any] struct {
	Value T
	Valid bool
}

// Some は値が存在する Optional を生成します。
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Valid: true}
}

// None は値が存在しない Optional を生成します。
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// FromPtr はポインタから Optional を生成します。nil は未提供として扱います。
func FromPtr[T any](p *T) Optional[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

// OrZero は値が存在すればその値を、存在しなければゼロ値を返します。
func (o Optional[T]) OrZero() T {
	if !o.Valid {
		var zero T
		return zero
	}
	return o.Value
}

// Ptr は値が存在すればそのポインタを、存在しなければ nil を返します。
func (o Optional[T]) Ptr() *T {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

// MarshalJSON は未提供の値を null として出力します。
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// UnmarshalJSON は null を未提供として読み込みます。
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = None[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
