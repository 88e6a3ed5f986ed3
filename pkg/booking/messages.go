package booking

import (
	"errors"
	"time"

	"github.com/jwalitptl/clinic-booking/pkg/client"
)

const (
	MsgCreated       = "تم إنشاء الحجز بنجاح (الرمز: %s)"
	MsgCancelled     = "تم إلغاء الحجز بنجاح"
	MsgFormInvalid   = "يرجى ملء جميع الحقول المطلوبة بشكل صحيح"
	MsgNoSlots       = "لا توجد مواعيد متاحة"
	MsgNoClinics     = "لا توجد عيادات متاحة"
	MsgCreateFailed  = "فشل في إنشاء الحجز"
	MsgCancelFailed  = "فشل في إلغاء الحجز"
	MsgLoadFailed    = "فشل في تحميل البيانات"
	MsgSaveFailed    = "فشل في حفظ البيانات"
	MsgDeleteFailed  = "فشل في الحذف"
	MsgLoginRequired = "يرجى تسجيل الدخول لحجز موعد"
)

// How long a notice stays up before it is dismissed.
const (
	SuccessDuration = 3 * time.Second
	ErrorDuration   = 5 * time.Second
)

// Server messages with a user-facing rewording.
const (
	srvClinicIDRequired = "الرجاء تقديم معرف العيادة"
	srvClinicNotFound   = "العيادة غير موجودة"
	srvSlotUnavailable  = "الموعد غير متاح"
	srvBookingNotFound  = "الحجز غير موجود"
	srvAlreadyCancelled = "الحجز ملغي بالفعل"
	srvNotAuthorized    = "غير مصرح"
	srvAdminRequired    = "يتطلب صلاحيات المسؤول"
	srvInvalidDate      = "التاريخ غير صالح"
	srvDateOutOfRange   = "يجب أن يكون التاريخ خلال الأشهر الثلاثة القادمة"
	srvInvalidTime      = "الوقت غير صالح"
)

// translations maps server messages onto the text shown to the user. The
// weekday rejection already names the day and is shown as sent.
var translations = map[string]string{
	srvClinicIDRequired: "يرجى تقديم معرف العيادة",
	srvClinicNotFound:   "العيادة غير موجودة",
	srvSlotUnavailable:  "الموعد غير متاح",
	srvBookingNotFound:  "الحجز غير موجود",
	srvAlreadyCancelled: "هذا الحجز ملغي بالفعل",
	srvNotAuthorized:    "غير مصرح",
	srvAdminRequired:    "هذه العملية متاحة للمسؤول فقط",
	srvInvalidDate:      "يرجى اختيار تاريخ صحيح",
	srvDateOutOfRange:   "يجب أن يكون التاريخ خلال الأشهر الثلاثة القادمة",
	srvInvalidTime:      "يرجى اختيار وقت من المواعيد المتاحة",
}

// Translate returns the user-facing text for a server message, or the
// message itself when there is no entry.
func Translate(message string) string {
	if t, ok := translations[message]; ok {
		return t
	}
	return message
}

// errorText turns a failed call into the notice text. Unauthorized errors
// ask the user to sign in; other API errors carry their own message.
func errorText(err error, fallback string) string {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return fallback
	}
	if apiErr.Kind == client.KindUnauthorized {
		return MsgLoginRequired
	}
	if apiErr.Message == "" {
		return fallback
	}
	return Translate(apiErr.Message)
}
