// Package response формирует единый JSON-конверт ответов API:
// {success, returnCode, data, message, error, timestamp}.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"
)

// Сообщения, которые видит пользователь.
const (
	MsgInternal       = "Errore interno del server"
	MsgInvalidBody    = "Corpo della richiesta non valido"
	MsgInvalidID      = "ID non valido"
	MsgValidation     = "Dati non validi"
	MsgInvalidDates   = "Date non valide: usare il formato DD-MM-YYYY"
	MsgUnauthorized   = "Non autorizzato"
	MsgTooManyRequest = "Troppe richieste, riprovare più tardi"
)

// Response конверт ответа.
type Response struct {
	Success    bool         `json:"success"`
	ReturnCode bool         `json:"returnCode"`
	Data       any          `json:"data"`
	Message    *string      `json:"message"`
	Error      string       `json:"error,omitempty"`
	Details    []FieldError `json:"details,omitempty"`
	Timestamp  string       `json:"timestamp"`
}

// ErrorResponse форма ошибки для swagger-аннотаций.
type ErrorResponse struct {
	Success   bool   `json:"success" example:"false"`
	Message   string `json:"message" example:"Socio non trovato"`
	Timestamp string `json:"timestamp" example:"2024-09-01T10:00:00Z"`
}

// FieldError нарушение правила валидации одного поля.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var now = time.Now

func timestamp() string {
	return now().UTC().Format(time.RFC3339Nano)
}

// OK успешный ответ с данными.
func OK(data any) Response {
	return Response{Success: true, ReturnCode: true, Data: data, Timestamp: timestamp()}
}

// OKWithMessage успешный ответ с данными и сообщением.
func OKWithMessage(data any, msg string) Response {
	resp := OK(data)
	resp.Message = &msg
	return resp
}

// Error ответ с ошибкой.
func Error(msg string) Response {
	return Response{Message: &msg, Timestamp: timestamp()}
}

// ErrorWithDetail ответ с ошибкой и техническим описанием в поле error.
func ErrorWithDetail(msg, detail string) Response {
	resp := Error(msg)
	resp.Error = detail
	return resp
}

// ValidationError переводит ошибки валидатора в список нарушений по полям.
func ValidationError(err error) Response {
	resp := Error(MsgValidation)
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		resp.Error = err.Error()
		return resp
	}
	for _, fe := range errs {
		resp.Details = append(resp.Details, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return resp
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.ActualTag() {
	case "required":
		return fmt.Sprintf("il campo %s è obbligatorio", fe.Field())
	case "max":
		return fmt.Sprintf("il campo %s supera la lunghezza massima di %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("il campo %s deve essere almeno %s", fe.Field(), fe.Param())
	case "len":
		return fmt.Sprintf("il campo %s deve avere lunghezza %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("il campo %s deve essere uno tra: %s", fe.Field(), fe.Param())
	case "codicefiscale":
		return "codice fiscale non valido"
	case "cap":
		return "il CAP deve essere composto da 5 cifre"
	case "mail":
		return fmt.Sprintf("il campo %s non è un indirizzo email valido", fe.Field())
	case "notfuture":
		return fmt.Sprintf("il campo %s non può essere una data futura", fe.Field())
	case "paramname":
		return "il nome del parametro può contenere solo lettere, numeri, '_' e '-'"
	case "gtfield":
		return fmt.Sprintf("il campo %s deve essere successivo a %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("il campo %s non è valido", fe.Field())
	}
}

// Send пишет статус и конверт.
func Send(w http.ResponseWriter, r *http.Request, status int, resp Response) {
	render.Status(r, status)
	render.JSON(w, r, resp)
}
