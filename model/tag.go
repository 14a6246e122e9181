package model

// NewTagID marks a tag that does not exist yet and must be created on write.
const NewTagID int64 = -1

type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (t Tag) IsNew() bool {
	return t.ID == NewTagID
}

type ItemTagMapping struct {
	OwnerID string `json:"ownerId"`
	ItemID  int64  `json:"itemId"`
	TagID   int64  `json:"tagId"`
}
