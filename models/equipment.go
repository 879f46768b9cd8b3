package models

import "time"

// Condition соответствует ENUM в таблице equipment.
type Condition string

const (
	ConditionGood Condition = "Good"
	ConditionFair Condition = "Fair"
	ConditionPoor Condition = "Poor"
)

func (c Condition) Valid() bool {
	switch c {
	case ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// Equipment.IsAvailable — кэшированный флаг, согласованный с открытыми
// записями EquipmentLog: выдача ставит false, возврат — true.
type Equipment struct {
	ID          int        `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	IsAvailable bool       `json:"is_available" db:"is_available"`
	Condition   Condition  `json:"condition" db:"condition"`
	LastChecked *time.Time `json:"last_checked,omitempty" db:"last_checked"`
}

// EquipmentLog: запись выдачи. Инвентарь "на руках" тогда и только тогда,
// когда существует строка с ReturnedAt IS NULL; не более одной такой строки
// на единицу инвентаря.
type EquipmentLog struct {
	ID          int        `json:"id" db:"id"`
	EquipmentID int        `json:"equipment_id" db:"equipment_id"`
	IssuedTo    int        `json:"issued_to" db:"issued_to"`
	IssuedAt    time.Time  `json:"issued_at" db:"issued_at"`
	ReturnedAt  *time.Time `json:"returned_at,omitempty" db:"returned_at"`
}

// EquipmentLogDetails — строка истории с именами для выдачи наружу.
type EquipmentLogDetails struct {
	EquipmentLog
	EquipmentName string `json:"equipment_name"`
	IssuedToName  string `json:"issued_to_name"`
}
