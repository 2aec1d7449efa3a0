package model

// StarterLibrary returns a small set of generic device types so a new
// layout has something to place before any custom types are imported.
func StarterLibrary() []DeviceType {
	return []DeviceType{
		{Slug: "1u-server", Model: "1U Server", UHeight: 1, Category: CategoryServer},
		{Slug: "2u-server", Model: "2U Server", UHeight: 2, Category: CategoryServer},
		{Slug: "4u-storage", Model: "4U Storage Array", UHeight: 4, Category: CategoryStorage},
		{Slug: "1u-switch", Model: "1U Switch", UHeight: 1, Category: CategorySwitch, IsFullDepth: Bool(false)},
		{Slug: "1u-patch-panel", Model: "24-Port Patch Panel", UHeight: 1, Category: CategoryPatchPanel, IsFullDepth: Bool(false)},
		{Slug: "1u-pdu", Model: "1U PDU", UHeight: 1, Category: CategoryPower, IsFullDepth: Bool(false)},
		{Slug: "1u-blank", Model: "1U Blanking Panel", UHeight: 1, Category: CategoryBlank, IsFullDepth: Bool(false)},
		{Slug: "0.5u-brush-panel", Model: "0.5U Brush Panel", UHeight: 0.5, Category: CategoryCableManagement, IsFullDepth: Bool(false)},
		{
			Slug:          "2u-shelf",
			Model:         "2U Shelf",
			UHeight:       2,
			Category:      CategoryShelf,
			SubdeviceRole: RoleParent,
			Slots: []Slot{
				{ID: "left", Position: SlotPosition{Row: 0, Col: 0}, WidthFraction: 0.5, HeightUnits: 2},
				{ID: "right", Position: SlotPosition{Row: 0, Col: 1}, WidthFraction: 0.5, HeightUnits: 2},
			},
		},
		{
			Slug:          "1u-half-width-appliance",
			Model:         "Half-Width Appliance",
			UHeight:       1,
			SlotWidth:     SlotWidthHalf,
			Category:      CategoryRouter,
			SubdeviceRole: RoleChild,
		},
	}
}
