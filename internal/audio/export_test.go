package audio

var NewFiller = newFiller
