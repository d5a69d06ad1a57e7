package apiServer

type encryptRequest struct {
	Image     string `json:"image"`
	Key       string `json:"key"`
	Algorithm string `json:"algorithm"`
}

type encryptResponse struct {
	EncryptedImage    string `json:"encrypted_image"`
	EncryptedFileURL  string `json:"encrypted_file_url"`
	EncryptedFilename string `json:"encrypted_filename"`
}

type decryptRequest struct {
	EncryptedImage string `json:"encrypted_image"`
	Key            string `json:"key"`
	Algorithm      string `json:"algorithm"`
}

type decryptResponse struct {
	DecryptedImage    string `json:"decrypted_image"`
	DecryptedFileURL  string `json:"decrypted_file_url"`
	DecryptedFilename string `json:"decrypted_filename"`
}

type messageResponse struct {
	DecryptedMessage string `json:"decrypted_message"`
}

type listArtifactsResponse struct {
	Names []string `json:"names"`
}

type healthResponse struct {
	Status string `json:"status"`
	Reads  uint64 `json:"reads"`
	Writes uint64 `json:"writes"`
}

type errorResponse struct {
	Error string `json:"error"`
}
