package table

// Row schemas for every CSV the pipeline emits. Column names follow the
// result tables the downstream plotting tooling already reads.

// AudioFileRow is one decoded audio file's metrics
type AudioFileRow struct {
	File        string  `csv:"file"`
	Date        Date    `csv:"date"`
	RMS         float64 `csv:"rms"`
	RMSDBFS     float64 `csv:"rms_dbfs"`
	ZCR         float64 `csv:"zcr"`
	DurationSec float64 `csv:"duration_sec"`
	SampleRate  int     `csv:"sample_rate"`
	SizeBytes   int64   `csv:"file_size_bytes"`
}

// ImageFileRow is one decoded image file's metrics
type ImageFileRow struct {
	File       string  `csv:"file"`
	Date       Date    `csv:"date"`
	Blur       float64 `csv:"blur_laplacian_var"`
	Brightness float64 `csv:"brightness_mean"`
	Contrast   float64 `csv:"contrast_std"`
	Width      int     `csv:"width"`
	Height     int     `csv:"height"`
	SizeBytes  int64   `csv:"file_size_bytes"`
}

// SensorDailyRow aggregates sensor-reported sound levels for one day
type SensorDailyRow struct {
	Date       Date  `csv:"date"`
	NEvents    int   `csv:"n_events"`
	SndLvlMean Float `csv:"snd_lvl_mean"`
	SndLvlStd  Float `csv:"snd_lvl_std"`
	DBAMean    Float `csv:"dba_mean"`
	DBAStd     Float `csv:"dba_std"`
	DBAP90     Float `csv:"dba_p90"`
}

// AudioDailyRow aggregates waveform metrics for one day
type AudioDailyRow struct {
	Date         Date  `csv:"date"`
	NAudio       int   `csv:"n_audio"`
	RMSMean      Float `csv:"rms_mean"`
	RMSStd       Float `csv:"rms_std"`
	RMSP10       Float `csv:"rms_p10"`
	RMSP90       Float `csv:"rms_p90"`
	ZCRMean      Float `csv:"zcr_mean"`
	ZCRStd       Float `csv:"zcr_std"`
	DurationMean Float `csv:"duration_mean"`
	SizeMean     Float `csv:"file_size_mean"`
}

// ImageDailyRow aggregates image quality metrics for one day
type ImageDailyRow struct {
	Date           Date  `csv:"date"`
	NImages        int   `csv:"n_images"`
	BlurMean       Float `csv:"blur_mean"`
	BlurStd        Float `csv:"blur_std"`
	BlurP10        Float `csv:"blur_p10"`
	BrightnessMean Float `csv:"brightness_mean"`
	BrightnessStd  Float `csv:"brightness_std"`
	ContrastMean   Float `csv:"contrast_mean"`
	ContrastStd    Float `csv:"contrast_std"`
	SizeMean       Float `csv:"file_size_mean"`
}

// IntegratedDailyRow is the cross-modal outer join for one day. A date
// missing from one branch keeps zero counts and null statistics there.
type IntegratedDailyRow struct {
	Date Date `csv:"date"`

	// Sensor branch
	NEvents    int   `csv:"n_events"`
	SndLvlMean Float `csv:"snd_lvl_mean"`
	SndLvlStd  Float `csv:"snd_lvl_std"`
	DBAMean    Float `csv:"dba_mean"`
	DBAStd     Float `csv:"dba_std"`
	DBAP90     Float `csv:"dba_p90"`

	// Audio branch
	NAudio       int   `csv:"n_audio"`
	RMSMean      Float `csv:"rms_mean"`
	RMSStd       Float `csv:"rms_std"`
	RMSP10       Float `csv:"rms_p10"`
	RMSP90       Float `csv:"rms_p90"`
	ZCRMean      Float `csv:"zcr_mean"`
	ZCRStd       Float `csv:"zcr_std"`
	DurationMean Float `csv:"duration_mean"`
	AudioSize    Float `csv:"audio_file_size_mean"`

	// Image branch
	NImages        int   `csv:"n_images"`
	BlurMean       Float `csv:"blur_mean"`
	BlurStd        Float `csv:"blur_std"`
	BlurP10        Float `csv:"blur_p10"`
	BrightnessMean Float `csv:"brightness_mean"`
	BrightnessStd  Float `csv:"brightness_std"`
	ContrastMean   Float `csv:"contrast_mean"`
	ContrastStd    Float `csv:"contrast_std"`
	ImageSize      Float `csv:"image_file_size_mean"`

	// Cross-modal derived metrics
	AudioRefs        int   `csv:"audio_refs"`
	ImageRefs        int   `csv:"image_refs"`
	Imbalance        Float `csv:"imbalance"`
	AudioPersistence Float `csv:"audio_persistence"`
	ImagePersistence Float `csv:"image_persistence"`

	// Anomaly flags
	CountAnomaly   bool `csv:"count_anomaly"`
	QualityAnomaly bool `csv:"quality_anomaly"`
	LogAnomaly     bool `csv:"log_anomaly"`
	AnyAnomaly     bool `csv:"any_anomaly"`
}
