package users

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/TheSiteshKumar/parlegg/database"
	"github.com/TheSiteshKumar/parlegg/models"
	"github.com/TheSiteshKumar/parlegg/utils"
)

// PUT /v1/users/profile
func UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	if err := r.ParseMultipartForm(6 << 20); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid form data"})
		return
	}

	db := database.DB
	var user models.User
	if err := db.First(&user, uid).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name != "" && name != "null" {
		user.Name = name
	}

	file, handler, err := r.FormFile("profile")
	if err == nil && handler != nil {
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(handler.Filename))
		allowedExts := map[string]bool{
			".jpg":  true,
			".jpeg": true,
			".png":  true,
			".webp": true,
		}
		if !allowedExts[ext] {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Image must be JPG/PNG/WEBP"})
			return
		}
		if handler.Size > 5<<20 {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Image must be 5MB or smaller"})
			return
		}

		// Sniff the real content type before trusting the extension
		buf := make([]byte, 512)
		n, err := file.Read(buf)
		if err != nil && err != io.EOF {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Failed to read image"})
			return
		}
		detected := http.DetectContentType(buf[:n])

		var imageBytes []byte
		if ext == ".webp" || detected == "image/webp" {
			if _, err := file.Seek(0, 0); err != nil {
				utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Failed to read image"})
				return
			}
			imageBytes, err = io.ReadAll(file)
			if err != nil {
				utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Failed to read image"})
				return
			}
		} else {
			if detected != "image/jpeg" && detected != "image/png" {
				utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Image must be JPG/PNG/WEBP"})
				return
			}
			if _, err := file.Seek(0, 0); err != nil {
				utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Failed to read image"})
				return
			}
			allBytes, err := io.ReadAll(file)
			if err != nil {
				utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Failed to read image"})
				return
			}

			// Decode and re-encode to strip anything that isn't pixels
			img, format, err := image.Decode(bytes.NewReader(allBytes))
			if err != nil {
				utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid image format"})
				return
			}
			var outBuf bytes.Buffer
			switch format {
			case "jpeg":
				if err := jpeg.Encode(&outBuf, img, &jpeg.Options{Quality: 85}); err != nil {
					utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to process image"})
					return
				}
			case "png":
				if err := png.Encode(&outBuf, img); err != nil {
					utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to process image"})
					return
				}
			default:
				utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Image must be JPG/PNG/WEBP"})
				return
			}
			imageBytes = outBuf.Bytes()
			if ext == ".jpeg" {
				ext = ".jpg"
			}
		}

		if user.Profile != nil && *user.Profile != "" {
			_ = utils.DeleteFromS3(*user.Profile)
		}

		imgName := "profile_" + strconv.FormatUint(uint64(uid), 10) + "_" + strconv.FormatInt(time.Now().UnixNano(), 10) + ext
		if err := utils.UploadToS3(imgName, bytes.NewReader(imageBytes), int64(len(imageBytes))); err != nil {
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to upload image"})
			return
		}
		user.Profile = &imgName
	}

	if err := db.Save(&user).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to save profile"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Profile updated",
		Data: map[string]interface{}{
			"name":    user.Name,
			"profile": profileURL(user.Profile),
		},
	})
}

// DELETE /v1/users/profile
func DeleteProfileHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB
	var user models.User
	if err := db.First(&user, uid).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
		return
	}

	if user.Profile != nil && *user.Profile != "" {
		// Object may already be gone; the DB row is what matters
		_ = utils.DeleteFromS3(*user.Profile)
	}

	user.Profile = nil
	if err := db.Save(&user).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to remove profile photo"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Profile photo removed",
		Data: map[string]interface{}{
			"name":    user.Name,
			"profile": nil,
		},
	})
}

func profileURL(key *string) interface{} {
	if key == nil || *key == "" {
		return nil
	}
	url, err := utils.GenerateSignedURL(*key, 3600)
	if err != nil {
		return *key
	}
	return url
}
