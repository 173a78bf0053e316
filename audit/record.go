package audit

// Record is one exported row: a password and the folder it is filed in.
type Record struct {
	OrgID            string `json:"OrgID" parquet:"org_id"`
	OrgName          string `json:"OrgName" parquet:"org_name"`
	PasswordID       string `json:"PasswordID" parquet:"password_id"`
	PasswordName     string `json:"PasswordName" parquet:"password_name"`
	Username         string `json:"Username" parquet:"username"`
	FolderID         string `json:"FolderID" parquet:"folder_id"`
	FolderName       string `json:"FolderName" parquet:"folder_name"`
	ParentFolderName string `json:"ParentFolderName" parquet:"parent_folder_name"`
	FolderURL        string `json:"FolderURL" parquet:"folder_url"`
}

var csvHeader = []string{
	"OrgID",
	"OrgName",
	"PasswordID",
	"PasswordName",
	"Username",
	"FolderID",
	"FolderName",
	"ParentFolderName",
	"FolderURL",
}

func (r Record) csvRow() []string {
	return []string{
		r.OrgID,
		r.OrgName,
		r.PasswordID,
		r.PasswordName,
		r.Username,
		r.FolderID,
		r.FolderName,
		r.ParentFolderName,
		r.FolderURL,
	}
}
