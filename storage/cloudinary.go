package storage

import (
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Item images are stored on Cloudinary via its signed upload REST API.
// Configuration comes from CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY,
// CLOUDINARY_API_SECRET and optional CLOUDINARY_FOLDER.

var errCloudinaryUnconfigured = errors.New("missing Cloudinary configuration")

// UploadBase64Image uploads a base64 data-URI (or bare base64 payload) under
// the given public ID and returns the hosted URL.
func UploadBase64Image(base64Src string, publicID string) (string, error) {
	if base64Src == "" {
		return "", errors.New("empty image payload")
	}

	payload := base64Src
	if i := strings.Index(base64Src, ","); i != -1 {
		payload = base64Src[i+1:]
	}

	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return "", errCloudinaryUnconfigured
	}

	if folder := os.Getenv("CLOUDINARY_FOLDER"); folder != "" {
		publicID = folder + "/" + publicID
	}

	timestamp := fmt.Sprintf("%d", time.Now().Unix())

	form := url.Values{}
	form.Add("file", "data:image/jpeg;base64,"+payload)
	form.Add("api_key", apiKey)
	form.Add("public_id", publicID)
	form.Add("timestamp", timestamp)
	form.Add("signature", signParams(publicID, timestamp, apiSecret))

	endpoint := "https://api.cloudinary.com/v1_1/" + cloudName + "/image/upload"
	body, err := postForm(endpoint, form)
	if err != nil {
		return "", err
	}

	var cloudRes struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
		Error     struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &cloudRes); err != nil {
		return "", err
	}
	if cloudRes.Error.Message != "" {
		return "", errors.New("cloudinary: " + cloudRes.Error.Message)
	}

	hosted := cloudRes.SecureURL
	if hosted == "" {
		hosted = cloudRes.URL
	}
	if hosted == "" {
		return "", errors.New("cloudinary: no URL in upload response")
	}
	return hosted, nil
}

// DeleteImage removes a previously uploaded image given its hosted URL.
// URL format: https://res.cloudinary.com/{cloud}/image/upload/v{n}/{public_id}.{ext}
func DeleteImage(imageURL string) error {
	if !strings.Contains(imageURL, "res.cloudinary.com") {
		return fmt.Errorf("not a Cloudinary URL: %s", imageURL)
	}

	parts := strings.Split(imageURL, "/")
	last := parts[len(parts)-1]
	publicID := strings.Split(last, ".")[0]

	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return errCloudinaryUnconfigured
	}

	if folder := os.Getenv("CLOUDINARY_FOLDER"); folder != "" {
		publicID = folder + "/" + publicID
	}

	timestamp := fmt.Sprintf("%d", time.Now().Unix())

	form := url.Values{}
	form.Add("public_id", publicID)
	form.Add("api_key", apiKey)
	form.Add("timestamp", timestamp)
	form.Add("signature", signParams(publicID, timestamp, apiSecret))

	endpoint := "https://api.cloudinary.com/v1_1/" + cloudName + "/image/destroy"
	body, err := postForm(endpoint, form)
	if err != nil {
		return err
	}

	var deleteRes struct {
		Result string `json:"result"`
		Error  struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &deleteRes); err != nil {
		return err
	}
	if deleteRes.Error.Message != "" {
		return errors.New("cloudinary: " + deleteRes.Error.Message)
	}
	if deleteRes.Result != "ok" {
		return fmt.Errorf("cloudinary: deletion result %q", deleteRes.Result)
	}
	return nil
}

// signParams builds Cloudinary's SHA1 request signature.
func signParams(publicID, timestamp, apiSecret string) string {
	signatureString := fmt.Sprintf("public_id=%s&timestamp=%s%s", publicID, timestamp, apiSecret)
	return fmt.Sprintf("%x", sha1.Sum([]byte(signatureString)))
}

func postForm(endpoint string, form url.Values) ([]byte, error) {
	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cloudinary: status %d: %s", res.StatusCode, string(body))
	}
	return body, nil
}
