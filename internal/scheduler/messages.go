package scheduler

import (
	"errors"
	"fmt"

	"rehearsal_scheduler/internal/booking"
)

// FieldLabels are the form labels shown to the studio owner.
var FieldLabels = map[string]string{
	booking.FieldBandName:  "Nome da Banda",
	booking.FieldContact:   "Responsável",
	booking.FieldDate:      "Data",
	booking.FieldStartTime: "Horário de Entrada",
	booking.FieldEndTime:   "Horário de Saída",
	booking.FieldPrice:     "Valor Cobrado",
	booking.FieldStatus:    "Status Pagamento",
}

// ColumnTitles are the short table headers.
var ColumnTitles = map[string]string{
	booking.FieldBandName:  "Banda",
	booking.FieldContact:   "Responsável",
	booking.FieldDate:      "Data",
	booking.FieldStartTime: "Entrada",
	booking.FieldEndTime:   "Saída",
	booking.FieldPrice:     "Valor (R$)",
	booking.FieldStatus:    "Status",
}

// Reason turns an error from the service into the message shown to the user.
func Reason(err error) string {
	if err == nil {
		return ""
	}

	var vErr *booking.ValidationError
	if errors.As(err, &vErr) {
		switch {
		case errors.Is(err, booking.ErrEmptyField):
			return fmt.Sprintf("O campo '%s' não pode estar vazio.", FieldLabels[vErr.Field])
		case errors.Is(err, booking.ErrBadTimeFormat):
			return "O formato do horário deve ser HH:MM (ex: 14:30)."
		case errors.Is(err, booking.ErrBadDateFormat):
			return "A data deve estar no formato DD/MM/AAAA."
		case errors.Is(err, booking.ErrBadPriceFormat):
			return "O 'Valor Cobrado' deve ser um número."
		case errors.Is(err, booking.ErrBadStatus):
			return "O status deve ser 'Pendente' ou 'Pago'."
		case errors.Is(err, booking.ErrNonPositiveDuration):
			return "O horário de saída deve ser depois do horário de entrada."
		}
	}

	var cErr *booking.ConflictError
	if errors.As(err, &cErr) {
		return fmt.Sprintf("Este horário conflita com o ensaio da banda '%s'.", cErr.Existing.BandName)
	}

	switch {
	case errors.Is(err, booking.ErrNotFound):
		return "Ensaio não encontrado."
	case errors.Is(err, booking.ErrSort):
		return "Não foi possível ordenar a coluna. Verifique os dados."
	case errors.Is(err, booking.ErrCorruptStore):
		return fmt.Sprintf("Não foi possível ler o arquivo de dados: %v", err)
	}
	return fmt.Sprintf("Não foi possível salvar os dados: %v", err)
}
