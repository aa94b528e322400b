package transfers

import "database/sql"

// assetState is the slice of the assets row the workflow reads before
// updating it. Its placement becomes the transfer's from_* fields.
type assetState struct {
	AssetID    int64
	SectionID  sql.NullInt64
	LocationID sql.NullInt64
	Status     string
}

// newPlacement is the asset state computed from the movement kind.
type newPlacement struct {
	SectionID  sql.NullInt64
	LocationID sql.NullInt64
	Status     string
}

// transferRecord is the asset_transfers row to insert. Immutable once
// written; there is no update or delete path for it anywhere in the app.
type transferRecord struct {
	AssetID        int64
	TransferDate   sql.NullTime
	FromSectionID  sql.NullInt64
	FromLocationID sql.NullInt64
	ToSectionID    sql.NullInt64
	ToLocationID   sql.NullInt64
	AuthorizedByID int64
	ReceivedByID   int64
	ReceivedDate   sql.NullTime
	Notes          string
}
