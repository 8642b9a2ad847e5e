package ptotype

type CreateTypeRequest struct {
	Name                     string   `json:"name" binding:"required,max=100"`
	Code                     string   `json:"code" binding:"required,max=20"`
	Color                    string   `json:"color" binding:"omitempty,len=7"`
	UsesBalance              *bool    `json:"uses_balance"`
	MultiLevelApproval       bool     `json:"multi_level_approval"`
	DisableHierarchyApproval bool     `json:"disable_hierarchy_approval"`
	NegativeAllowed          bool     `json:"negative_allowed"`
	CarryoverAllowed         bool     `json:"carryover_allowed"`
	MaxNegativeBalance       string   `json:"max_negative_balance"`
	SortOrder                int      `json:"sort_order"`
	SpecificApproverIDs      []string `json:"specific_approver_ids" binding:"omitempty,dive,uuid"`
}

type UpdateTypeRequest struct {
	Name                     string   `json:"name" binding:"required,max=100"`
	Color                    string   `json:"color" binding:"omitempty,len=7"`
	UsesBalance              *bool    `json:"uses_balance"`
	MultiLevelApproval       bool     `json:"multi_level_approval"`
	DisableHierarchyApproval bool     `json:"disable_hierarchy_approval"`
	NegativeAllowed          bool     `json:"negative_allowed"`
	CarryoverAllowed         bool     `json:"carryover_allowed"`
	MaxNegativeBalance       string   `json:"max_negative_balance"`
	IsActive                 *bool    `json:"is_active"`
	SortOrder                int      `json:"sort_order"`
	SpecificApproverIDs      []string `json:"specific_approver_ids" binding:"omitempty,dive,uuid"`
}

type TypeResponse struct {
	ID                       string   `json:"id"`
	Name                     string   `json:"name"`
	Code                     string   `json:"code"`
	Color                    string   `json:"color"`
	UsesBalance              bool     `json:"uses_balance"`
	MultiLevelApproval       bool     `json:"multi_level_approval"`
	DisableHierarchyApproval bool     `json:"disable_hierarchy_approval"`
	NegativeAllowed          bool     `json:"negative_allowed"`
	CarryoverAllowed         bool     `json:"carryover_allowed"`
	MaxNegativeBalance       string   `json:"max_negative_balance"`
	IsActive                 bool     `json:"is_active"`
	SortOrder                int      `json:"sort_order"`
	SpecificApproverIDs      []string `json:"specific_approver_ids,omitempty"`
}
