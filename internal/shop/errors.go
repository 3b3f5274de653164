package shop

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Kind classifies a rejected operation so transports can pick a status.
type Kind int

const (
	KindInvalid Kind = iota + 1
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
	KindInsufficientFunds
)

// Error is a business rule violation with a customer-facing message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf extracts the Kind of a business error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsKind reports whether err is a business error of the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

var (
	ErrAccountNotFound     = newError(KindNotFound, "ไม่พบบัญชีผู้ใช้")
	ErrUsernameTaken       = newError(KindConflict, "Username already exists")
	ErrEmailTaken          = newError(KindConflict, "Email already exists")
	ErrInvalidUsername     = newError(KindInvalid, "Username must be 3-50 letters, digits or underscores")
	ErrInvalidEmail        = newError(KindInvalid, "Email is invalid")
	ErrInvalidPassword     = newError(KindInvalid, "Password must be 8-72 characters")
	ErrInvalidCheckType    = newError(KindInvalid, "Invalid type. Must be 'username' or 'email'.")
	ErrGameNotFound        = newError(KindNotFound, "ไม่พบเกมที่ต้องการ")
	ErrInvalidGameID       = newError(KindInvalid, "รหัสเกมไม่ถูกต้อง")
	ErrEmptySearch         = newError(KindInvalid, "กรุณาระบุคำค้นหา")
	ErrGameTitleRequired   = newError(KindInvalid, "กรุณาระบุชื่อเกม")
	ErrGamePriceTooLow     = newError(KindInvalid, "ราคาเกมต้องไม่ต่ำกว่า 0.01 บาท")
	ErrUnknownCategory     = newError(KindInvalid, "One or more categories do not exist")
	ErrGameHasOwners       = newError(KindConflict, "ไม่สามารถลบเกมที่มีผู้ซื้อแล้ว")
	ErrAlreadyInCart       = newError(KindConflict, "เกมนี้อยู่ในตะกร้าสินค้าแล้ว")
	ErrAlreadyOwned        = newError(KindConflict, "คุณมีเกมนี้อยู่แล้ว")
	ErrCartItemNotFound    = newError(KindNotFound, "ไม่พบสินค้าในตะกร้า")
	ErrEmptyCart           = newError(KindInvalid, "ตะกร้าสินค้าของคุณว่างเปล่า")
	ErrGamesUnavailable    = newError(KindInvalid, "เกมบางรายการไม่มีจำหน่ายแล้ว")
	ErrInvalidPricing      = newError(KindInvalid, "เกมบางรายการมีราคาไม่ถูกต้อง")
	ErrInvalidTotal        = newError(KindInvalid, "ไม่สามารถคำนวณราคาได้")
	ErrInsufficientBalance = newError(KindInsufficientFunds, "ยอดเงินในกระเป๋าไม่เพียงพอ")
	ErrCouponCodeRequired  = newError(KindInvalid, "กรุณาระบุรหัสคูปอง")
	ErrCouponNotFound      = newError(KindNotFound, "ไม่พบคูปองนี้")
	ErrCouponExhausted     = newError(KindInvalid, "คูปองนี้ถูกใช้ครบจำนวนแล้ว")
	ErrCouponAlreadyUsed   = newError(KindConflict, "คุณใช้คูปองนี้ไปแล้ว")
	ErrCouponCodeTaken     = newError(KindConflict, "Coupon code already exists")
	ErrCouponMissing       = newError(KindNotFound, "Coupon not found")
	ErrCouponValue         = newError(KindInvalid, "มูลค่าส่วนลดต้องมากกว่า 0")
	ErrCouponMaxUsage      = newError(KindInvalid, "จำนวนสิทธิ์ต้องมากกว่า 0")
	ErrCouponBelowUsed     = newError(KindInvalid, "Max usage cannot be lower than used count")
	ErrInvalidAmount       = newError(KindInvalid, "ยอดรวมไม่ถูกต้อง")
	ErrTopupNotPositive    = newError(KindInvalid, "จำนวนเงินต้องมากกว่า 0 บาท")
	ErrTopupTooLarge       = newError(KindInvalid, "จำนวนเงินต้องไม่เกิน 100,000 บาทต่อครั้ง")
	ErrWalletLimit         = newError(KindInvalid, "ยอดเงินในกระเป๋าเกินขีดจำกัด")
)

func ownedGamesError(titles []string) *Error {
	return newError(KindConflict, "คุณมีเกมเหล่านี้อยู่แล้ว: "+strings.Join(titles, ", "))
}

func invalidCredentials(byEmail bool) *Error {
	if byEmail {
		return newError(KindUnauthorized, "อีเมลหรือรหัสผ่านไม่ถูกต้อง")
	}
	return newError(KindUnauthorized, "ชื่อผู้ใช้งานหรือรหัสผ่านไม่ถูกต้อง")
}

// isDuplicate reports a unique index violation from MySQL or SQLite.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

// duplicateOn reports a unique index violation on column. MySQL names the
// index after "for key", SQLite names the table.column that clashed.
func duplicateOn(err error, column string) bool {
	if !isDuplicate(err) {
		return false
	}
	msg := strings.ToLower(err.Error())
	if i := strings.LastIndex(msg, "for key"); i >= 0 {
		msg = msg[i:]
	}
	return strings.Contains(msg, column)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
