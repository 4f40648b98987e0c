package domain

// Трехуровневая таксономия объектов: MainType -> SubType -> FinalType.

type MainType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

func (t MainType) EntityID() int64 { return t.ID }

type SubType struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	MainTypeID int64  `json:"main_type_id"`
}

func (t SubType) EntityID() int64 { return t.ID }

type FinalType struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SubTypeID int64  `json:"sub_type_id"`
}

func (t FinalType) EntityID() int64 { return t.ID }
