package request_models

type SubmitVideoRequest struct {
	Name       string `json:"name" binding:"required,min=1,max=100"`
	Address    string `json:"address" binding:"required,max=200"`
	Age        int    `json:"age" binding:"required,min=1,max=120"`
	SelfRating int    `json:"rating" binding:"required,min=1,max=5"`
	VideoURL   string `json:"videoUrl" binding:"required,url"`
}

type RateVideoRequest struct {
	Rating int `json:"rating" binding:"required"`
}
