// Package res holds static text shown by the UI.
package res

// AboutContent contains the Markdown content for the About dialog.
const AboutContent = `An audio-reactive visualizer built with Go and Fyne.

**Controls:**
- **Start** opens the audio output and reveals the playback control
- **Stop / Start** toggles the looping clip
- Moving the pointer steers the effects: left to right sets the tremolo, bottom to top sets the delay
- **Space** toggles playback once started

Loud passages stamp decorative images where the waveform peaks.
The background cross-fades between two images on a fixed period.
`
